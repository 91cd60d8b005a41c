package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/spf13/pflag"
)

// enumFlag is a string flag restricted to a fixed set of values.
type enumFlag struct {
	allowed []string
	value   string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(def string, allowed ...string) *enumFlag {
	return &enumFlag{allowed: allowed, value: def}
}

func (f *enumFlag) String() string { return f.value }

func (f *enumFlag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if !slices.Contains(f.allowed, v) {
		return fmt.Errorf("must be one of %s", strings.Join(f.allowed, ", "))
	}
	f.value = v
	return nil
}

func (f *enumFlag) Type() string { return strings.Join(f.allowed, "|") }

func skillTypeFlag() *enumFlag {
	return newEnumFlag(string(domain.SkillBehavioral), string(domain.SkillBehavioral), string(domain.SkillTechnical))
}

func categoryFlag() *enumFlag {
	names := make([]string, 0, len(domain.TipCategories))
	for _, c := range domain.TipCategories {
		names = append(names, string(c))
	}
	return newEnumFlag("", names...)
}

func authorFlag() *enumFlag {
	return newEnumFlag(string(domain.AuthorParticipant), string(domain.AuthorParticipant), string(domain.AuthorManager))
}

// checkListFlag collects capability check names, repeatable or comma
// separated.
type checkListFlag struct {
	names []domain.CheckName
}

var _ pflag.Value = (*checkListFlag)(nil)

func (f *checkListFlag) String() string {
	parts := make([]string, len(f.names))
	for i, n := range f.names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ",")
}

func (f *checkListFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		name := domain.CheckName(strings.ToLower(strings.TrimSpace(part)))
		if !slices.Contains(domain.AllChecks, name) {
			return fmt.Errorf("unknown check %q", part)
		}
		if !slices.Contains(f.names, name) {
			f.names = append(f.names, name)
		}
	}
	return nil
}

func (f *checkListFlag) Type() string { return "checks" }
