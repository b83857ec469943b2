package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/data/repos"
	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/apierr"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
	"github.com/tushar-behera15/padh-ai-tracker/internal/scheduler"
)

// StrategyProvider is the external source of revision strategies. Failures
// are expected and recovered with the fallback policy.
type StrategyProvider interface {
	GenerateStrategy(ctx context.Context, scorePercentage float64, daysLeft int) (scheduler.Strategy, error)
}

// StrategyCache memoizes provider results. May be nil (disabled).
type StrategyCache interface {
	Get(ctx context.Context, scorePercentage float64, daysLeft int) (scheduler.Strategy, bool)
	Set(ctx context.Context, scorePercentage float64, daysLeft int, s scheduler.Strategy)
}

// ScorePlan is what a score write returns: the persisted score id, its
// classification, the strategy that produced the schedule and the schedule
// itself.
type ScorePlan struct {
	ScoreID          uuid.UUID                  `json:"score_id"`
	PerformanceLevel scheduler.PerformanceLevel `json:"performance_level"`
	Strategy         scheduler.Strategy         `json:"ai_strategy"`
	StrategySource   string                     `json:"strategy_source"`
	RevisionPlan     []time.Time                `json:"revision_plan"`
}

const (
	strategySourceAI       = "ai"
	strategySourceCache    = "cache"
	strategySourceFallback = "fallback"
)

type ScoreService interface {
	// RecordScore replaces the chapter's active score and its whole
	// revision schedule in one transaction.
	RecordScore(ctx context.Context, chapterID uuid.UUID, scorePercentage float64, deadline time.Time) (*ScorePlan, error)
	// UpdateScore rewrites an existing score in place and regenerates its
	// schedule, same transactional shape as RecordScore.
	UpdateScore(ctx context.Context, scoreID uuid.UUID, scorePercentage float64, deadline time.Time) (*ScorePlan, error)
	DeleteScore(ctx context.Context, scoreID uuid.UUID) error
	ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]*domain.Score, error)
	SubjectSummary(ctx context.Context, subjectID uuid.UUID) (*repos.SubjectScoreSummary, error)
}

type scoreService struct {
	db           *gorm.DB
	log          *logger.Logger
	chapterRepo  repos.ChapterRepo
	scoreRepo    repos.ScoreRepo
	revisionRepo repos.RevisionRepo
	provider     StrategyProvider
	cache        StrategyCache
	now          func() time.Time
}

func NewScoreService(
	db *gorm.DB,
	log *logger.Logger,
	chapterRepo repos.ChapterRepo,
	scoreRepo repos.ScoreRepo,
	revisionRepo repos.RevisionRepo,
	provider StrategyProvider,
	cache StrategyCache,
) ScoreService {
	return &scoreService{
		db:           db,
		log:          log.With("service", "ScoreService"),
		chapterRepo:  chapterRepo,
		scoreRepo:    scoreRepo,
		revisionRepo: revisionRepo,
		provider:     provider,
		cache:        cache,
		now:          time.Now,
	}
}

func validateScoreInput(scorePercentage float64, deadline time.Time) error {
	if scorePercentage < 0 || scorePercentage > 100 {
		return apierr.Invalid(fmt.Errorf("score_percentage must be between 0 and 100"))
	}
	if deadline.IsZero() {
		return apierr.Invalid(fmt.Errorf("deadline is required"))
	}
	return nil
}

func (ss *scoreService) RecordScore(ctx context.Context, chapterID uuid.UUID, scorePercentage float64, deadline time.Time) (*ScorePlan, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateScoreInput(scorePercentage, deadline); err != nil {
		return nil, err
	}

	now := ss.now()
	var plan *ScorePlan
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		chapter, err := ss.chapterRepo.GetOwned(dbc, chapterID, userID)
		if err != nil {
			return fmt.Errorf("resolving chapter: %w", err)
		}
		if chapter == nil {
			return apierr.NotFound("chapter")
		}

		// Revisions reference scores by FK; they go first.
		oldScoreIDs, err := ss.scoreRepo.ListIDsByChapter(dbc, chapterID)
		if err != nil {
			return fmt.Errorf("listing old scores: %w", err)
		}
		if err := ss.revisionRepo.DeleteByScoreIDs(dbc, oldScoreIDs); err != nil {
			return fmt.Errorf("clearing old schedule: %w", err)
		}
		if err := ss.scoreRepo.DeleteByChapter(dbc, chapterID); err != nil {
			return fmt.Errorf("clearing old score: %w", err)
		}

		score := &domain.Score{
			ID:               uuid.New(),
			ChapterID:        chapterID,
			ScorePercentage:  scorePercentage,
			PerformanceLevel: string(scheduler.Classify(scorePercentage)),
			Deadline:         scheduler.DateOnly(deadline),
		}
		if _, err := ss.scoreRepo.Create(dbc, []*domain.Score{score}); err != nil {
			return fmt.Errorf("writing score: %w", err)
		}

		plan, err = ss.replaceSchedule(dbc, score, now)
		return err
	}); err != nil {
		return nil, err
	}
	return plan, nil
}

func (ss *scoreService) UpdateScore(ctx context.Context, scoreID uuid.UUID, scorePercentage float64, deadline time.Time) (*ScorePlan, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateScoreInput(scorePercentage, deadline); err != nil {
		return nil, err
	}

	now := ss.now()
	var plan *ScorePlan
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		score, err := ss.scoreRepo.GetOwned(dbc, scoreID, userID)
		if err != nil {
			return fmt.Errorf("resolving score: %w", err)
		}
		if score == nil {
			return apierr.NotFound("score")
		}

		if err := ss.revisionRepo.DeleteByScoreIDs(dbc, []uuid.UUID{score.ID}); err != nil {
			return fmt.Errorf("clearing old schedule: %w", err)
		}

		score.ScorePercentage = scorePercentage
		score.PerformanceLevel = string(scheduler.Classify(scorePercentage))
		score.Deadline = scheduler.DateOnly(deadline)
		if err := ss.scoreRepo.Update(dbc, score); err != nil {
			return fmt.Errorf("writing score: %w", err)
		}

		plan, err = ss.replaceSchedule(dbc, score, now)
		return err
	}); err != nil {
		return nil, err
	}
	return plan, nil
}

// replaceSchedule runs the shared tail of both score-write flows: acquire a
// strategy (fallback on any provider failure, create and update alike),
// build the dates, insert the revision rows and pin the strategy used onto
// the score row. Must be called inside the caller's transaction.
func (ss *scoreService) replaceSchedule(dbc dbctx.Context, score *domain.Score, now time.Time) (*ScorePlan, error) {
	daysLeft := scheduler.DaysLeft(now, score.Deadline)
	strategy, source := ss.acquireStrategy(dbc.Ctx, score.ScorePercentage, daysLeft)

	dates := scheduler.BuildRevisionDates(strategy, now, score.Deadline)

	revisions := make([]*domain.Revision, 0, len(dates))
	for _, d := range dates {
		revisions = append(revisions, &domain.Revision{
			ID:           uuid.New(),
			ScoreID:      score.ID,
			RevisionDate: d,
			Completed:    false,
		})
	}
	if _, err := ss.revisionRepo.Create(dbc, revisions); err != nil {
		return nil, fmt.Errorf("writing schedule: %w", err)
	}

	rawStrategy, err := json.Marshal(strategy)
	if err != nil {
		return nil, fmt.Errorf("encoding strategy: %w", err)
	}
	score.AIStrategy = datatypes.JSON(rawStrategy)
	if err := ss.scoreRepo.Update(dbc, score); err != nil {
		return nil, fmt.Errorf("persisting strategy: %w", err)
	}

	return &ScorePlan{
		ScoreID:          score.ID,
		PerformanceLevel: scheduler.PerformanceLevel(score.PerformanceLevel),
		Strategy:         strategy,
		StrategySource:   source,
		RevisionPlan:     dates,
	}, nil
}

// acquireStrategy never fails: provider errors (including timeouts and
// structurally invalid output) degrade to the fixed fallback policy.
func (ss *scoreService) acquireStrategy(ctx context.Context, scorePercentage float64, daysLeft int) (scheduler.Strategy, string) {
	if ss.cache != nil {
		if s, ok := ss.cache.Get(ctx, scorePercentage, daysLeft); ok {
			return s, strategySourceCache
		}
	}
	if ss.provider == nil {
		return scheduler.FallbackStrategy(), strategySourceFallback
	}
	s, err := ss.provider.GenerateStrategy(ctx, scorePercentage, daysLeft)
	if err != nil {
		ss.log.Warn("Strategy provider failed, using fallback", "error", err, "score", scorePercentage, "days_left", daysLeft)
		return scheduler.FallbackStrategy(), strategySourceFallback
	}
	if ss.cache != nil {
		ss.cache.Set(ctx, scorePercentage, daysLeft, s)
	}
	return s, strategySourceAI
}

func (ss *scoreService) DeleteScore(ctx context.Context, scoreID uuid.UUID) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		score, err := ss.scoreRepo.GetOwned(dbc, scoreID, userID)
		if err != nil {
			return fmt.Errorf("resolving score: %w", err)
		}
		if score == nil {
			return apierr.NotFound("score")
		}
		if err := ss.revisionRepo.DeleteByScoreIDs(dbc, []uuid.UUID{score.ID}); err != nil {
			return fmt.Errorf("clearing schedule: %w", err)
		}
		deleted, err := ss.scoreRepo.DeleteOwned(dbc, scoreID, userID)
		if err != nil {
			return fmt.Errorf("deleting score: %w", err)
		}
		if !deleted {
			return apierr.NotFound("score")
		}
		return nil
	})
}

func (ss *scoreService) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]*domain.Score, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	chapter, err := ss.chapterRepo.GetOwned(dbc, chapterID, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving chapter: %w", err)
	}
	if chapter == nil {
		return nil, apierr.NotFound("chapter")
	}
	return ss.scoreRepo.ListByChapterOwned(dbc, chapterID, userID)
}

func (ss *scoreService) SubjectSummary(ctx context.Context, subjectID uuid.UUID) (*repos.SubjectScoreSummary, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return ss.scoreRepo.SubjectSummary(dbctx.Context{Ctx: ctx}, subjectID, userID)
}
