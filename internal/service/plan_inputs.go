package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/go-playground/validator/v10"
)

// SkillInput is a skill added by hand.
type SkillInput struct {
	Name        string `validate:"required,max=80"`
	Description string `validate:"max=500"`
	Type        string `validate:"required,oneof=behavioral technical"`
}

// TipInput is a custom tip. Dates are YYYY-MM-DD; missing dates default to
// today and the bucket's usual length.
type TipInput struct {
	Title           string `validate:"required,max=120"`
	Category        string `validate:"required,oneof=experience social course"`
	Description     string `validate:"max=1000"`
	SuccessCriteria string `validate:"max=500"`
	Start           string `validate:"omitempty,datetime=2006-01-02"`
	End             string `validate:"omitempty,datetime=2006-01-02"`
}

var validate = validator.New()

// validateInput maps validator failures onto an InvalidInput rule error.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating input: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return domain.NewInvalidInput("%s", strings.Join(msgs, "; "))
}

func (in SkillInput) toSkill() domain.Skill {
	return domain.Skill{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Type:        domain.SkillType(in.Type),
	}
}

// dates resolves the tip's start and end, filling gaps from today and
// the default length.
func (in TipInput) dates(today time.Time, length time.Duration) (time.Time, time.Time) {
	start := today
	if in.Start != "" {
		start, _ = time.Parse(time.DateOnly, in.Start)
	}
	end := start.Add(length)
	if in.End != "" {
		end, _ = time.Parse(time.DateOnly, in.End)
	}
	return start, end
}
