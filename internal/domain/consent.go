package domain

import "time"

// ConsentState is a participant's progress through a program's intro video
// and instructions. Both flags only ever move from false to true.
type ConsentState struct {
	ProgramID                string
	VideoWatched             bool
	InstructionsAcknowledged bool
	UpdatedAt                time.Time
}

// WatchVideo records that the intro video was watched. It reports whether
// anything changed.
func (c *ConsentState) WatchVideo(now time.Time) bool {
	if c.VideoWatched {
		return false
	}
	c.VideoWatched = true
	c.UpdatedAt = now
	return true
}

// AcknowledgeInstructions requires the video to have been watched first.
// It reports whether anything changed.
func (c *ConsentState) AcknowledgeInstructions(now time.Time) (bool, error) {
	if !c.VideoWatched {
		return false, ruleErr(CodeConsentRequired, "watch the intro video for %q before acknowledging the instructions", c.ProgramID)
	}
	if c.InstructionsAcknowledged {
		return false, nil
	}
	c.InstructionsAcknowledged = true
	c.UpdatedAt = now
	return true, nil
}

// RequireAcknowledged gates entry into a program's exercises.
func (c *ConsentState) RequireAcknowledged() error {
	if !c.InstructionsAcknowledged {
		return ruleErr(CodeConsentRequired, "acknowledge the instructions for %q before starting exercises", c.ProgramID)
	}
	return nil
}
