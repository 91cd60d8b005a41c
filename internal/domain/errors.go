package domain

import "fmt"

type RuleCode string

const (
	CodeLockedItem            RuleCode = "LOCKED_ITEM"
	CodeConsentRequired       RuleCode = "CONSENT_REQUIRED"
	CodeSlotFull              RuleCode = "SLOT_FULL"
	CodeNotCancellable        RuleCode = "NOT_CANCELLABLE"
	CodeNotBooked             RuleCode = "NOT_BOOKED"
	CodeAlreadyBooked         RuleCode = "ALREADY_BOOKED"
	CodePlanLocked            RuleCode = "PLAN_LOCKED"
	CodeInvalidStepTransition RuleCode = "INVALID_STEP_TRANSITION"
	CodeUnknownItem           RuleCode = "UNKNOWN_ITEM"
	CodeChecksFailed          RuleCode = "CHECKS_FAILED"
	CodeInvalidInput          RuleCode = "INVALID_INPUT"
	CodeNoPlan                RuleCode = "NO_PLAN"
)

// RuleError is a rejected operation. Rejections never change state.
// Errors compare equal under errors.Is when their codes match, so callers
// test against the sentinel values below.
type RuleError struct {
	Code    RuleCode
	Message string
}

func (e *RuleError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Code == e.Code
}

func ruleErr(code RuleCode, format string, args ...any) error {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrLockedItem            = &RuleError{Code: CodeLockedItem}
	ErrConsentRequired       = &RuleError{Code: CodeConsentRequired}
	ErrSlotFull              = &RuleError{Code: CodeSlotFull}
	ErrNotCancellable        = &RuleError{Code: CodeNotCancellable}
	ErrNotBooked             = &RuleError{Code: CodeNotBooked}
	ErrAlreadyBooked         = &RuleError{Code: CodeAlreadyBooked}
	ErrPlanLocked            = &RuleError{Code: CodePlanLocked}
	ErrInvalidStepTransition = &RuleError{Code: CodeInvalidStepTransition}
	ErrUnknownItem           = &RuleError{Code: CodeUnknownItem}
	ErrChecksFailed          = &RuleError{Code: CodeChecksFailed}
	ErrInvalidInput          = &RuleError{Code: CodeInvalidInput}
	ErrNoPlan                = &RuleError{Code: CodeNoPlan}
)

// NewInvalidStep builds an InvalidStepTransition rejection. Flow packages
// outside domain use it for their own state machines.
func NewInvalidStep(format string, args ...any) error {
	return ruleErr(CodeInvalidStepTransition, format, args...)
}

// NewChecksFailed builds a ChecksFailed rejection.
func NewChecksFailed(format string, args ...any) error {
	return ruleErr(CodeChecksFailed, format, args...)
}

// NewInvalidInput builds an InvalidInput rejection.
func NewInvalidInput(format string, args ...any) error {
	return ruleErr(CodeInvalidInput, format, args...)
}

// NewUnknownItem builds an UnknownItem rejection.
func NewUnknownItem(format string, args ...any) error {
	return ruleErr(CodeUnknownItem, format, args...)
}

// NewNoPlan builds a NoPlan rejection.
func NewNoPlan(format string, args ...any) error {
	return ruleErr(CodeNoPlan, format, args...)
}
