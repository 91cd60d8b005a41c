package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// confirmIO prints question with a [y/N] hint and reports whether the
// answer was yes. Anything unreadable counts as no.
func confirmIO(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := readAnswerLine(in)
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// readAnswerLine reads one byte at a time up to LF or CR, so Enter works
// whether or not the terminal is in raw mode, and never reads past the
// answer.
func readAnswerLine(in io.Reader) (string, error) {
	var sb strings.Builder
	var b [1]byte
	for {
		n, err := in.Read(b[:])
		if n == 1 {
			if b[0] == '\n' || b[0] == '\r' {
				return sb.String(), nil
			}
			sb.WriteByte(b[0])
		}
		if errors.Is(err, io.EOF) && sb.Len() > 0 {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
	}
}
