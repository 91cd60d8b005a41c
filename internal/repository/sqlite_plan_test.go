package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRepo_SaveAndGet(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	plan := testutil.NewTestPlan()
	require.NoError(t, repo.Save(ctx, plan))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, got.Status)
	assert.Equal(t, plan.CreatedAt, got.CreatedAt)
	assert.Nil(t, got.SubmittedAt)
	require.Len(t, got.Skills, 2)
	assert.Equal(t, "Delegation", got.Skills[0].Name)
	assert.Equal(t, domain.SkillTechnical, got.Skills[1].Type)
	require.Len(t, got.Skills[0].Tips, 2)
	assert.Equal(t, plan.Skills[0].Tips[1], got.Skills[0].Tips[1])
	assert.Equal(t, domain.SourceLibrary, got.Skills[0].Tips[1].Source)
}

func TestPlanRepo_SaveReplacesContent(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	plan := testutil.NewTestPlan()
	require.NoError(t, repo.Save(ctx, plan))

	require.NoError(t, plan.RemoveSkill(0, now))
	_, err := plan.TogglePrivate(0, now)
	require.NoError(t, err)
	_, err = plan.SetCompletion(plan.Skills[0].Tips[0].ID, 60, now)
	require.NoError(t, err)
	_, err = plan.Submit(now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, plan))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanUnderReview, got.Status)
	require.NotNil(t, got.SubmittedAt)
	assert.Equal(t, now, *got.SubmittedAt)
	require.Len(t, got.Skills, 1)
	assert.True(t, got.Skills[0].Private)
	assert.Equal(t, 50, got.Skills[0].Tips[0].CompletionPct)
}

func TestPlanRepo_LatestAndList(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	older := testutil.NewTestPlan()
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := testutil.NewTestPlan()
	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, older))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, older.ID, all[1].ID)
}

func TestCommentRepo_AppendOrdersBySequence(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	repo := NewSQLiteCommentRepo(database)
	ctx := context.Background()

	plan := testutil.NewTestPlan()
	require.NoError(t, plans.Save(ctx, plan))
	tipID := plan.Skills[0].Tips[0].ID
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	first := &domain.Comment{Thread: domain.ThreadKey{Skill: "Delegation", TipID: tipID}, Author: domain.AuthorManager, Text: "first", At: at}
	require.NoError(t, repo.Append(ctx, plan.ID, first))
	assert.NotEmpty(t, first.ID)
	require.NoError(t, repo.Append(ctx, plan.ID, &domain.Comment{
		ID: "c2", Thread: domain.ThreadKey{Skill: "Delegation"}, Author: domain.AuthorParticipant, Text: "second", At: at,
	}))

	got, err := repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, *first, got[0])
	assert.Equal(t, "c2", got[1].ID)
	assert.Equal(t, "skill:Delegation", got[1].Thread.String())

	loaded, err := plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Comments, 2)
}

func TestCommentRepo_RejectsUnknownAuthor(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	ctx := context.Background()
	plan := testutil.NewTestPlan()
	require.NoError(t, plans.Save(ctx, plan))

	err := NewSQLiteCommentRepo(database).Append(ctx, plan.ID, &domain.Comment{
		Thread: domain.ThreadKey{Skill: "Delegation"}, Author: "boss", Text: "x", At: time.Now(),
	})
	assert.Error(t, err)
}
