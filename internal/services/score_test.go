package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/data/repos"
	"github.com/tushar-behera15/padh-ai-tracker/internal/data/repos/testutil"
	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/apierr"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/requestdata"
	"github.com/tushar-behera15/padh-ai-tracker/internal/scheduler"
)

type fakeProvider struct {
	strategy scheduler.Strategy
	err      error
	calls    int
}

func (p *fakeProvider) GenerateStrategy(ctx context.Context, scorePercentage float64, daysLeft int) (scheduler.Strategy, error) {
	p.calls++
	if p.err != nil {
		return scheduler.Strategy{}, p.err
	}
	return p.strategy, nil
}

type fakeCache struct {
	store map[string]scheduler.Strategy
	gets  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]scheduler.Strategy{}}
}

func (c *fakeCache) key(score float64, daysLeft int) string {
	return fmt.Sprintf("%v:%d", score, daysLeft)
}

func (c *fakeCache) Get(ctx context.Context, score float64, daysLeft int) (scheduler.Strategy, bool) {
	c.gets++
	s, ok := c.store[c.key(score, daysLeft)]
	return s, ok
}

func (c *fakeCache) Set(ctx context.Context, score float64, daysLeft int, s scheduler.Strategy) {
	c.sets++
	c.store[c.key(score, daysLeft)] = s
}

func TestAcquireStrategyUsesProvider(t *testing.T) {
	log := testutil.Logger(t)
	provider := &fakeProvider{strategy: scheduler.Strategy{RevisionCount: 5, InitialGap: 1, GapMultiplier: 1.4}}
	svc := &scoreService{log: log, provider: provider, now: time.Now}

	s, source := svc.acquireStrategy(context.Background(), 25, 30)
	if source != strategySourceAI {
		t.Fatalf("source: want=%s got=%s", strategySourceAI, source)
	}
	if s != provider.strategy {
		t.Fatalf("strategy: %+v", s)
	}
}

func TestAcquireStrategyFallsBackOnProviderError(t *testing.T) {
	log := testutil.Logger(t)
	provider := &fakeProvider{err: fmt.Errorf("upstream 503")}
	svc := &scoreService{log: log, provider: provider, now: time.Now}

	s, source := svc.acquireStrategy(context.Background(), 25, 30)
	if source != strategySourceFallback {
		t.Fatalf("source: want=%s got=%s", strategySourceFallback, source)
	}
	if s != scheduler.FallbackStrategy() {
		t.Fatalf("strategy: %+v", s)
	}
}

func TestAcquireStrategyFallsBackWithoutProvider(t *testing.T) {
	log := testutil.Logger(t)
	svc := &scoreService{log: log, now: time.Now}

	s, source := svc.acquireStrategy(context.Background(), 25, 30)
	if source != strategySourceFallback || s != scheduler.FallbackStrategy() {
		t.Fatalf("want fallback, got %s %+v", source, s)
	}
}

func TestAcquireStrategyCacheHitSkipsProvider(t *testing.T) {
	log := testutil.Logger(t)
	provider := &fakeProvider{strategy: scheduler.Strategy{RevisionCount: 4, InitialGap: 2, GapMultiplier: 1.5}}
	cache := newFakeCache()
	svc := &scoreService{log: log, provider: provider, cache: cache, now: time.Now}

	first, source := svc.acquireStrategy(context.Background(), 60, 20)
	if source != strategySourceAI || cache.sets != 1 {
		t.Fatalf("first call: source=%s sets=%d", source, cache.sets)
	}

	second, source := svc.acquireStrategy(context.Background(), 60, 20)
	if source != strategySourceCache {
		t.Fatalf("second call source: %s", source)
	}
	if second != first {
		t.Fatalf("cache returned different strategy: %+v vs %+v", second, first)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls: want=1 got=%d", provider.calls)
	}
}

// ---- transaction tests (need TEST_POSTGRES_DSN) ----

func serviceTestEnv(t *testing.T) (*gorm.DB, *domain.User, *domain.Chapter, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	ctx := context.Background()

	// Service transactions open their own connection, so fixtures must be
	// real committed rows; cleanup removes them bottom-up.
	user := testutil.SeedUser(t, ctx, db, fmt.Sprintf("svc-%s@example.com", uuid.New()))
	subject := testutil.SeedSubject(t, ctx, db, user.ID, "Physics")
	chapter := testutil.SeedChapter(t, ctx, db, subject.ID, "Waves")
	t.Cleanup(func() { cleanupUser(t, db, user.ID) })

	reqCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: user.ID})
	return db, user, chapter, reqCtx
}

func cleanupUser(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	t.Helper()
	err := db.Exec(`
		DELETE FROM revisions WHERE score_id IN (
			SELECT scores.id FROM scores
			JOIN chapters ON scores.chapter_id = chapters.id
			JOIN subjects ON chapters.subject_id = subjects.id
			WHERE subjects.user_id = ?)`, userID).Error
	if err == nil {
		err = db.Exec(`
			DELETE FROM scores WHERE chapter_id IN (
				SELECT chapters.id FROM chapters
				JOIN subjects ON chapters.subject_id = subjects.id
				WHERE subjects.user_id = ?)`, userID).Error
	}
	if err == nil {
		err = db.Exec(`DELETE FROM chapters WHERE subject_id IN (SELECT id FROM subjects WHERE user_id = ?)`, userID).Error
	}
	if err == nil {
		err = db.Exec(`DELETE FROM subjects WHERE user_id = ?`, userID).Error
	}
	if err == nil {
		err = db.Exec(`DELETE FROM users WHERE id = ?`, userID).Error
	}
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func newTestScoreService(db *gorm.DB, t *testing.T, provider StrategyProvider, revOverride repos.RevisionRepo) *scoreService {
	t.Helper()
	log := testutil.Logger(t)
	revRepo := revOverride
	if revRepo == nil {
		revRepo = repos.NewRevisionRepo(db, log)
	}
	return &scoreService{
		db:           db,
		log:          log.With("service", "ScoreService"),
		chapterRepo:  repos.NewChapterRepo(db, log),
		scoreRepo:    repos.NewScoreRepo(db, log),
		revisionRepo: revRepo,
		provider:     provider,
		now:          func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func TestRecordScoreReplacesNotAppends(t *testing.T) {
	db, _, chapter, ctx := serviceTestEnv(t)
	provider := &fakeProvider{strategy: scheduler.Strategy{RevisionCount: 3, InitialGap: 3, GapMultiplier: 1.6}}
	svc := newTestScoreService(db, t, provider, nil)

	deadline := time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC)

	first, err := svc.RecordScore(ctx, chapter.ID, 35, deadline)
	if err != nil {
		t.Fatalf("first RecordScore: %v", err)
	}
	if first.PerformanceLevel != scheduler.LevelWeak {
		t.Fatalf("performance level: %s", first.PerformanceLevel)
	}
	if len(first.RevisionPlan) != 3 {
		t.Fatalf("first plan length: %d", len(first.RevisionPlan))
	}

	second, err := svc.RecordScore(ctx, chapter.ID, 85, deadline)
	if err != nil {
		t.Fatalf("second RecordScore: %v", err)
	}
	if second.PerformanceLevel != scheduler.LevelStrong {
		t.Fatalf("performance level: %s", second.PerformanceLevel)
	}

	var scoreCount, revisionCount int64
	if err := db.Model(&domain.Score{}).Where("chapter_id = ?", chapter.ID).Count(&scoreCount).Error; err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if scoreCount != 1 {
		t.Fatalf("score count after replace: want=1 got=%d", scoreCount)
	}
	if err := db.Model(&domain.Revision{}).Where("score_id = ?", second.ScoreID).Count(&revisionCount).Error; err != nil {
		t.Fatalf("count revisions: %v", err)
	}
	if revisionCount != int64(len(second.RevisionPlan)) {
		t.Fatalf("revision count: want=%d got=%d", len(second.RevisionPlan), revisionCount)
	}

	// No orphans from the first write.
	if err := db.Model(&domain.Revision{}).Where("score_id = ?", first.ScoreID).Count(&revisionCount).Error; err != nil {
		t.Fatalf("count old revisions: %v", err)
	}
	if revisionCount != 0 {
		t.Fatalf("old revisions leaked: %d", revisionCount)
	}
}

func TestRecordScoreFallbackProducesPlan(t *testing.T) {
	db, _, chapter, ctx := serviceTestEnv(t)
	provider := &fakeProvider{err: fmt.Errorf("provider down")}
	svc := newTestScoreService(db, t, provider, nil)

	deadline := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	plan, err := svc.RecordScore(ctx, chapter.ID, 50, deadline)
	if err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	if plan.StrategySource != strategySourceFallback {
		t.Fatalf("strategy source: %s", plan.StrategySource)
	}
	if plan.Strategy != scheduler.FallbackStrategy() {
		t.Fatalf("strategy: %+v", plan.Strategy)
	}
	// Fallback {2, 3, 1.6} lands on day 3 and day 8, both well before the
	// deadline a month out.
	if len(plan.RevisionPlan) != 2 {
		t.Fatalf("plan length: %d", len(plan.RevisionPlan))
	}
}

func TestUpdateScoreFallbackProducesPlan(t *testing.T) {
	db, _, chapter, ctx := serviceTestEnv(t)
	okProvider := &fakeProvider{strategy: scheduler.Strategy{RevisionCount: 3, InitialGap: 2, GapMultiplier: 1.5}}
	svc := newTestScoreService(db, t, okProvider, nil)

	deadline := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.RecordScore(ctx, chapter.ID, 45, deadline)
	if err != nil {
		t.Fatalf("RecordScore: %v", err)
	}

	svc.provider = &fakeProvider{err: fmt.Errorf("provider down")}
	updated, err := svc.UpdateScore(ctx, created.ScoreID, 75, deadline)
	if err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}
	if updated.StrategySource != strategySourceFallback {
		t.Fatalf("strategy source: %s", updated.StrategySource)
	}
	if updated.ScoreID != created.ScoreID {
		t.Fatalf("update must keep the score id: %s vs %s", updated.ScoreID, created.ScoreID)
	}
	if updated.PerformanceLevel != scheduler.LevelStrong {
		t.Fatalf("performance level: %s", updated.PerformanceLevel)
	}
	if len(updated.RevisionPlan) == 0 {
		t.Fatalf("expected a non-empty fallback plan")
	}
}

type failingRevisionRepo struct {
	repos.RevisionRepo
	failAfter int
}

func (r *failingRevisionRepo) Create(dbc dbctx.Context, revisions []*domain.Revision) ([]*domain.Revision, error) {
	if len(revisions) == 0 {
		return r.RevisionRepo.Create(dbc, revisions)
	}
	// Insert a prefix, then fail, leaving partial writes for the rollback
	// to clean up.
	if r.failAfter > 0 && r.failAfter < len(revisions) {
		if _, err := r.RevisionRepo.Create(dbc, revisions[:r.failAfter]); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("simulated constraint violation")
}

func TestRecordScoreRollsBackOnScheduleWriteFailure(t *testing.T) {
	db, _, chapter, ctx := serviceTestEnv(t)
	log := testutil.Logger(t)
	provider := &fakeProvider{strategy: scheduler.Strategy{RevisionCount: 3, InitialGap: 3, GapMultiplier: 1.6}}
	failing := &failingRevisionRepo{RevisionRepo: repos.NewRevisionRepo(db, log), failAfter: 1}
	svc := newTestScoreService(db, t, provider, failing)

	deadline := time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC)
	_, err := svc.RecordScore(ctx, chapter.ID, 35, deadline)
	if err == nil {
		t.Fatalf("expected RecordScore to fail")
	}

	var scoreCount, revisionCount int64
	if err := db.Model(&domain.Score{}).Where("chapter_id = ?", chapter.ID).Count(&scoreCount).Error; err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if scoreCount != 0 {
		t.Fatalf("score row survived rollback: %d", scoreCount)
	}
	if err := db.Raw(`
		SELECT COUNT(*) FROM revisions
		JOIN scores ON revisions.score_id = scores.id
		WHERE scores.chapter_id = ?`, chapter.ID).Scan(&revisionCount).Error; err != nil {
		t.Fatalf("count revisions: %v", err)
	}
	if revisionCount != 0 {
		t.Fatalf("revision rows survived rollback: %d", revisionCount)
	}
}

func TestRecordScoreCrossUserIsNotFound(t *testing.T) {
	db, _, chapter, _ := serviceTestEnv(t)
	provider := &fakeProvider{strategy: scheduler.Strategy{RevisionCount: 2, InitialGap: 2, GapMultiplier: 1.5}}
	svc := newTestScoreService(db, t, provider, nil)

	intruder := testutil.SeedUser(t, context.Background(), db, fmt.Sprintf("intruder-%s@example.com", uuid.New()))
	t.Cleanup(func() { cleanupUser(t, db, intruder.ID) })
	intruderCtx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: intruder.ID})

	deadline := time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC)
	_, err := svc.RecordScore(intruderCtx, chapter.ID, 50, deadline)
	if err == nil {
		t.Fatalf("expected not found")
	}
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("status: want=404 got=%d (%v)", apierr.StatusOf(err), err)
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called for unauthorized access")
	}

	var scoreCount int64
	if err := db.Model(&domain.Score{}).Where("chapter_id = ?", chapter.ID).Count(&scoreCount).Error; err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if scoreCount != 0 {
		t.Fatalf("rows written despite not found: %d", scoreCount)
	}
}

func TestRecordScoreValidation(t *testing.T) {
	db, _, chapter, ctx := serviceTestEnv(t)
	provider := &fakeProvider{strategy: scheduler.Strategy{RevisionCount: 2, InitialGap: 2, GapMultiplier: 1.5}}
	svc := newTestScoreService(db, t, provider, nil)

	deadline := time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RecordScore(ctx, chapter.ID, -5, deadline); apierr.StatusOf(err) != 400 {
		t.Fatalf("negative score: want 400, got %v", err)
	}
	if _, err := svc.RecordScore(ctx, chapter.ID, 105, deadline); apierr.StatusOf(err) != 400 {
		t.Fatalf("oversized score: want 400, got %v", err)
	}
	if _, err := svc.RecordScore(ctx, chapter.ID, 50, time.Time{}); apierr.StatusOf(err) != 400 {
		t.Fatalf("zero deadline: want 400, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called for invalid input")
	}
}
