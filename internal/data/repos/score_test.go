package repos

import (
	"context"
	"testing"
	"time"

	"github.com/tushar-behera15/padh-ai-tracker/internal/data/repos/testutil"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
)

func TestScoreRepoOwnershipChain(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewScoreRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "score-owner@example.com")
	other := testutil.SeedUser(t, ctx, tx, "score-other@example.com")
	subject := testutil.SeedSubject(t, ctx, tx, owner.ID, "Physics")
	chapter := testutil.SeedChapter(t, ctx, tx, subject.ID, "Optics")
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	score := testutil.SeedScore(t, ctx, tx, chapter.ID, 55, "average", deadline)

	got, err := repo.GetOwned(dbc, score.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetOwned: %v", err)
	}
	if got == nil || got.ID != score.ID {
		t.Fatalf("GetOwned: unexpected result: %+v", got)
	}

	// Same score through a different user resolves to nothing.
	got, err = repo.GetOwned(dbc, score.ID, other.ID)
	if err != nil {
		t.Fatalf("GetOwned (other user): %v", err)
	}
	if got != nil {
		t.Fatalf("GetOwned (other user): expected nil, got %+v", got)
	}

	deleted, err := repo.DeleteOwned(dbc, score.ID, other.ID)
	if err != nil {
		t.Fatalf("DeleteOwned (other user): %v", err)
	}
	if deleted {
		t.Fatalf("DeleteOwned (other user): must not delete")
	}

	deleted, err = repo.DeleteOwned(dbc, score.ID, owner.ID)
	if err != nil {
		t.Fatalf("DeleteOwned: %v", err)
	}
	if !deleted {
		t.Fatalf("DeleteOwned: expected delete")
	}
}

func TestScoreRepoSubjectSummary(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewScoreRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "summary-owner@example.com")
	subject := testutil.SeedSubject(t, ctx, tx, owner.ID, "Maths")
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	chA := testutil.SeedChapter(t, ctx, tx, subject.ID, "Algebra")
	chB := testutil.SeedChapter(t, ctx, tx, subject.ID, "Calculus")
	chC := testutil.SeedChapter(t, ctx, tx, subject.ID, "Geometry")
	testutil.SeedScore(t, ctx, tx, chA.ID, 30, "weak", deadline)
	testutil.SeedScore(t, ctx, tx, chB.ID, 60, "average", deadline)
	testutil.SeedScore(t, ctx, tx, chC.ID, 90, "strong", deadline)

	summary, err := repo.SubjectSummary(dbc, subject.ID, owner.ID)
	if err != nil {
		t.Fatalf("SubjectSummary: %v", err)
	}
	if summary.Weak != 1 || summary.Average != 1 || summary.Strong != 1 {
		t.Fatalf("SubjectSummary counts: %+v", summary)
	}
	if summary.AveragePercentage == nil || *summary.AveragePercentage != 60 {
		t.Fatalf("SubjectSummary average: %+v", summary.AveragePercentage)
	}

	// Empty for a user who owns nothing under this subject.
	other := testutil.SeedUser(t, ctx, tx, "summary-other@example.com")
	summary, err = repo.SubjectSummary(dbc, subject.ID, other.ID)
	if err != nil {
		t.Fatalf("SubjectSummary (other user): %v", err)
	}
	if summary.Weak != 0 || summary.Average != 0 || summary.Strong != 0 || summary.AveragePercentage != nil {
		t.Fatalf("SubjectSummary (other user): expected empty, got %+v", summary)
	}
}
