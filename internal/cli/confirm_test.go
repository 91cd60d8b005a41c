package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmIO(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"y lf", "y\n", true},
		{"yes cr", "yes\r", true},
		{"mixed case", "YeS\n", true},
		{"yes at eof", "yes", true},
		{"empty means no", "\n", false},
		{"explicit no", "n\n", false},
		{"nothing to read", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tc.want, confirmIO(strings.NewReader(tc.input), &out, "Discard?"))
			assert.Equal(t, "Discard? [y/N]: ", out.String())
		})
	}
}

func TestProgramReset_InteractivePrompt(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return true }

	run := func(input string) (string, error) {
		root := NewRootCmd(app)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetIn(strings.NewReader(input))
		root.SetArgs([]string{"program", "reset", leadership})
		err := root.Execute()
		return out.String(), err
	}

	out, err := run("n\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Left "+leadership+" untouched.")

	out, err = run("y\n")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
}
