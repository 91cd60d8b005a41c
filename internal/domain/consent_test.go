package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcknowledge_RequiresVideo(t *testing.T) {
	c := &ConsentState{ProgramID: "p"}
	changed, err := c.AcknowledgeInstructions(time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConsentRequired)
	assert.False(t, changed)
	assert.False(t, c.InstructionsAcknowledged)
}

func TestAcknowledge_AfterVideo(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := &ConsentState{ProgramID: "p"}
	assert.True(t, c.WatchVideo(now))
	assert.False(t, c.WatchVideo(now.Add(time.Minute)))
	assert.Equal(t, now, c.UpdatedAt)

	changed, err := c.AcknowledgeInstructions(now)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, c.RequireAcknowledged())

	changed, err = c.AcknowledgeInstructions(now)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRequireAcknowledged(t *testing.T) {
	c := &ConsentState{ProgramID: "p", VideoWatched: true}
	assert.ErrorIs(t, c.RequireAcknowledged(), ErrConsentRequired)
}

func TestRuleError_Format(t *testing.T) {
	err := NewInvalidInput("bad %s", "thing")
	assert.Equal(t, "INVALID_INPUT: bad thing", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrLockedItem)
	assert.Equal(t, "SLOT_FULL", ErrSlotFull.Error())
}
