package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/apierr"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
	"github.com/tushar-behera15/padh-ai-tracker/internal/services"
)

type ScoreHandler struct {
	log          *logger.Logger
	scoreService services.ScoreService
}

func NewScoreHandler(log *logger.Logger, scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		log:          log.With("handler", "ScoreHandler"),
		scoreService: scoreService,
	}
}

type scoreWriteRequest struct {
	ScorePercentage float64 `json:"score_percentage"`
	Deadline        string  `json:"deadline"`
}

func (r *scoreWriteRequest) deadlineDate() (time.Time, error) {
	d, err := time.Parse(time.DateOnly, r.Deadline)
	if err != nil {
		return time.Time{}, apierr.Invalid(fmt.Errorf("deadline must be YYYY-MM-DD"))
	}
	return d, nil
}

// planResponse is the wire shape of a score write; revision dates go out as
// plain YYYY-MM-DD strings.
func planResponse(plan *services.ScorePlan) gin.H {
	dates := make([]string, 0, len(plan.RevisionPlan))
	for _, d := range plan.RevisionPlan {
		dates = append(dates, d.Format(time.DateOnly))
	}
	return gin.H{
		"score_id":          plan.ScoreID,
		"performance_level": plan.PerformanceLevel,
		"ai_strategy":       plan.Strategy,
		"strategy_source":   plan.StrategySource,
		"revision_plan":     dates,
	}
}

func (h *ScoreHandler) ListByChapter(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("chapterId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid chapter id")))
		return
	}
	scores, err := h.scoreService.ListByChapter(c.Request.Context(), chapterID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"scores": scores})
}

func (h *ScoreHandler) Record(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("chapterId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid chapter id")))
		return
	}
	var req scoreWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid request body")))
		return
	}
	deadline, err := req.deadlineDate()
	if err != nil {
		RespondError(c, err)
		return
	}
	plan, err := h.scoreService.RecordScore(c.Request.Context(), chapterID, req.ScorePercentage, deadline)
	if err != nil {
		h.log.Error("RecordScore failed", "error", err, "chapter_id", chapterID)
		RespondError(c, err)
		return
	}
	RespondCreated(c, planResponse(plan))
}

func (h *ScoreHandler) Update(c *gin.Context) {
	scoreID, err := uuid.Parse(c.Param("scoreId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid score id")))
		return
	}
	var req scoreWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid request body")))
		return
	}
	deadline, err := req.deadlineDate()
	if err != nil {
		RespondError(c, err)
		return
	}
	plan, err := h.scoreService.UpdateScore(c.Request.Context(), scoreID, req.ScorePercentage, deadline)
	if err != nil {
		h.log.Error("UpdateScore failed", "error", err, "score_id", scoreID)
		RespondError(c, err)
		return
	}
	RespondOK(c, planResponse(plan))
}

func (h *ScoreHandler) Delete(c *gin.Context) {
	scoreID, err := uuid.Parse(c.Param("scoreId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid score id")))
		return
	}
	if err := h.scoreService.DeleteScore(c.Request.Context(), scoreID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "score deleted"})
}

func (h *ScoreHandler) SubjectSummary(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid subject id")))
		return
	}
	summary, err := h.scoreService.SubjectSummary(c.Request.Context(), subjectID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, summary)
}
