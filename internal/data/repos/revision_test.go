package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tushar-behera15/padh-ai-tracker/internal/data/repos/testutil"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
)

func TestRevisionRepoListAndComplete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewRevisionRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "rev-owner@example.com")
	subject := testutil.SeedSubject(t, ctx, tx, owner.ID, "History")
	chapter := testutil.SeedChapter(t, ctx, tx, subject.ID, "Revolutions")
	deadline := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	score := testutil.SeedScore(t, ctx, tx, chapter.ID, 45, "average", deadline)

	d1 := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)
	testutil.SeedRevision(t, ctx, tx, score.ID, d2)
	rev1 := testutil.SeedRevision(t, ctx, tx, score.ID, d1)

	all, err := repo.ListByUser(dbc, owner.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListByUser: want=2 got=%d", len(all))
	}
	if !all[0].RevisionDate.Before(all[1].RevisionDate) {
		t.Fatalf("ListByUser: not ordered by date: %+v", all)
	}
	if all[0].ChapterName != "Revolutions" || all[0].SubjectName != "History" {
		t.Fatalf("ListByUser: join names wrong: %+v", all[0])
	}

	byDate, err := repo.ListByUserAndDate(dbc, owner.ID, d1)
	if err != nil {
		t.Fatalf("ListByUserAndDate: %v", err)
	}
	if len(byDate) != 1 || byDate[0].ID != rev1.ID {
		t.Fatalf("ListByUserAndDate: %+v", byDate)
	}

	updated, err := repo.MarkCompletedOwned(dbc, rev1.ID, owner.ID)
	if err != nil {
		t.Fatalf("MarkCompletedOwned: %v", err)
	}
	if updated == nil || !updated.Completed {
		t.Fatalf("MarkCompletedOwned: %+v", updated)
	}

	// Unknown user cannot complete it.
	other := testutil.SeedUser(t, ctx, tx, "rev-other@example.com")
	updated, err = repo.MarkCompletedOwned(dbc, rev1.ID, other.ID)
	if err != nil {
		t.Fatalf("MarkCompletedOwned (other user): %v", err)
	}
	if updated != nil {
		t.Fatalf("MarkCompletedOwned (other user): expected nil")
	}

	// Unknown revision id resolves to nothing.
	updated, err = repo.MarkCompletedOwned(dbc, uuid.New(), owner.ID)
	if err != nil {
		t.Fatalf("MarkCompletedOwned (missing): %v", err)
	}
	if updated != nil {
		t.Fatalf("MarkCompletedOwned (missing): expected nil")
	}
}

func TestRevisionRepoDeleteByScoreIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewRevisionRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "rev-del@example.com")
	subject := testutil.SeedSubject(t, ctx, tx, owner.ID, "Chemistry")
	chapter := testutil.SeedChapter(t, ctx, tx, subject.ID, "Acids")
	deadline := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	score := testutil.SeedScore(t, ctx, tx, chapter.ID, 80, "strong", deadline)
	testutil.SeedRevision(t, ctx, tx, score.ID, deadline.AddDate(0, 0, -10))
	testutil.SeedRevision(t, ctx, tx, score.ID, deadline.AddDate(0, 0, -5))

	if err := repo.DeleteByScoreIDs(dbc, nil); err != nil {
		t.Fatalf("DeleteByScoreIDs (empty): %v", err)
	}

	if err := repo.DeleteByScoreIDs(dbc, []uuid.UUID{score.ID}); err != nil {
		t.Fatalf("DeleteByScoreIDs: %v", err)
	}
	left, err := repo.ListByScore(dbc, score.ID)
	if err != nil {
		t.Fatalf("ListByScore: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("DeleteByScoreIDs: %d rows left", len(left))
	}
}
