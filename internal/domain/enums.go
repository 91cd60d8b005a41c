package domain

import "fmt"

type ItemStatus string

const (
	ItemLocked     ItemStatus = "locked"
	ItemAvailable  ItemStatus = "available"
	ItemInProgress ItemStatus = "in_progress"
	ItemComplete   ItemStatus = "complete"
)

// Enterable reports whether an item in this status can be started or
// resumed. Complete items still open, in review mode.
func (s ItemStatus) Enterable() bool {
	return s == ItemAvailable || s == ItemInProgress
}

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemLocked, ItemAvailable, ItemInProgress, ItemComplete:
		return true
	}
	return false
}

type ProgramStatus string

const (
	ProgramNotStarted ProgramStatus = "not_started"
	ProgramInProgress ProgramStatus = "in_progress"
	ProgramComplete   ProgramStatus = "complete"
)

type ItemKind string

const (
	KindExercise ItemKind = "exercise"
	KindCenter   ItemKind = "center"
	KindPhase    ItemKind = "phase"
)

type CheckName string

const (
	CheckBrowser  CheckName = "browser"
	CheckInternet CheckName = "internet"
	CheckCamera   CheckName = "camera"
	CheckMic      CheckName = "mic"
	CheckUpload   CheckName = "upload"
)

// AllChecks is the capability battery in display order.
var AllChecks = []CheckName{CheckBrowser, CheckInternet, CheckCamera, CheckMic, CheckUpload}

type CheckResult string

const (
	CheckPending CheckResult = "pending"
	CheckRunning CheckResult = "running"
	CheckPass    CheckResult = "pass"
	CheckWarning CheckResult = "warning"
	CheckFail    CheckResult = "fail"
)

// Terminal reports whether the check has finished.
func (r CheckResult) Terminal() bool {
	return r == CheckPass || r == CheckWarning || r == CheckFail
}

type PlanStatus string

const (
	PlanDraft       PlanStatus = "draft"
	PlanUnderReview PlanStatus = "under_review"
	PlanApproved    PlanStatus = "approved"
)

type SkillType string

const (
	SkillBehavioral SkillType = "behavioral"
	SkillTechnical  SkillType = "technical"
)

func ParseSkillType(s string) (SkillType, error) {
	switch SkillType(s) {
	case SkillBehavioral, SkillTechnical:
		return SkillType(s), nil
	}
	return "", fmt.Errorf("unknown skill type %q (expected behavioral or technical)", s)
}

// TipCategory is the 70-20-10 learning bucket of a development action.
type TipCategory string

const (
	CategoryExperience TipCategory = "experience"
	CategorySocial     TipCategory = "social"
	CategoryCourse     TipCategory = "course"
)

// TipCategories lists the buckets in 70-20-10 order.
var TipCategories = []TipCategory{CategoryExperience, CategorySocial, CategoryCourse}

// Weight is the bucket's share of the 70-20-10 model.
func (c TipCategory) Weight() int {
	switch c {
	case CategoryExperience:
		return 70
	case CategorySocial:
		return 20
	case CategoryCourse:
		return 10
	}
	return 0
}

func ParseTipCategory(s string) (TipCategory, error) {
	switch TipCategory(s) {
	case CategoryExperience, CategorySocial, CategoryCourse:
		return TipCategory(s), nil
	}
	return "", fmt.Errorf("unknown tip category %q (expected experience, social or course)", s)
}

type TipSource string

const (
	SourceAI      TipSource = "ai"
	SourceLibrary TipSource = "library"
)

type Author string

const (
	AuthorParticipant Author = "participant"
	AuthorManager     Author = "manager"
)

func ParseAuthor(s string) (Author, error) {
	switch Author(s) {
	case AuthorParticipant, AuthorManager:
		return Author(s), nil
	}
	return "", fmt.Errorf("unknown comment author %q (expected participant or manager)", s)
}
