package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDP_ScriptedRunGeneratesPlan(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "idp", "--answer", "#1", "--answer", "Two hours on Fridays")
	require.NoError(t, err)
	assert.Contains(t, out, "SKILL GAPS")
	assert.Contains(t, out, "Leading people")
	assert.Contains(t, out, "Two hours on Fridays")
	assert.Contains(t, out, "How do you prefer to learn?")
	assert.Contains(t, out, "DEVELOPMENT PLAN")
	assert.Contains(t, out, "0. Delegation")

	snap, err := app.Plans.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, snap.Plan.Status)
	assert.Len(t, snap.Plan.Skills, 3)
}

func TestIDP_UploadsAfterEveryAnswer(t *testing.T) {
	app := testApp(t)
	doc := filepath.Join(t.TempDir(), "review-2025.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF"), 0o644))

	out, err := executeCmd(t, app, "idp",
		"--answer", "#1", "--answer", "#2", "--answer", "#3", "--answer", "#2",
		"--upload", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Attachments:")
	assert.Contains(t, out, "review-2025.pdf")
	assert.Contains(t, out, "DEVELOPMENT PLAN")
}

func TestIDP_Rejections(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "idp")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "idp", "--answer", "#9")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "idp", "--answer", "#zero")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "idp", "--answer", "#1", "--upload", "cv.pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "idp",
		"--answer", "a", "--answer", "b", "--answer", "c", "--answer", "d", "--answer", "e")
	assert.ErrorIs(t, err, domain.ErrInvalidStepTransition)

	_, err = executeCmd(t, app, "idp",
		"--answer", "a", "--answer", "b", "--answer", "c", "--answer", "d",
		"--upload", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = app.Plans.Current(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoPlan)
}

func TestIDP_RegenerationResetsSubmittedPlan(t *testing.T) {
	app := testApp(t)
	old := seedPlan(t, app)
	_, err := executeCmd(t, app, "plan", "submit")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "idp", "--answer", "#2")
	require.NoError(t, err)

	prev, err := app.Plans.Get(context.Background(), old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, prev.Plan.Status)

	out, err := executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, old.ID[:8])
}
