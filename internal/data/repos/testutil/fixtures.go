package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *domain.Subject {
	tb.Helper()
	s := &domain.Subject{
		ID:     uuid.New(),
		Name:   name,
		UserID: userID,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, name string) *domain.Chapter {
	tb.Helper()
	c := &domain.Chapter{
		ID:        uuid.New(),
		Name:      name,
		SubjectID: subjectID,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return c
}

func SeedScore(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, percentage float64, level string, deadline time.Time) *domain.Score {
	tb.Helper()
	s := &domain.Score{
		ID:               uuid.New(),
		ChapterID:        chapterID,
		ScorePercentage:  percentage,
		PerformanceLevel: level,
		Deadline:         deadline,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed score: %v", err)
	}
	return s
}

func SeedRevision(tb testing.TB, ctx context.Context, tx *gorm.DB, scoreID uuid.UUID, date time.Time) *domain.Revision {
	tb.Helper()
	r := &domain.Revision{
		ID:           uuid.New(),
		ScoreID:      scoreID,
		RevisionDate: date,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed revision: %v", err)
	}
	return r
}
