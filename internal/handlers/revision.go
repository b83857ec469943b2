package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/apierr"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
	"github.com/tushar-behera15/padh-ai-tracker/internal/services"
)

type RevisionHandler struct {
	log             *logger.Logger
	revisionService services.RevisionService
}

func NewRevisionHandler(log *logger.Logger, revisionService services.RevisionService) *RevisionHandler {
	return &RevisionHandler{
		log:             log.With("handler", "RevisionHandler"),
		revisionService: revisionService,
	}
}

func revisionItemResponse(items []*domain.RevisionItem) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		out = append(out, gin.H{
			"id":            it.ID,
			"revision_date": it.RevisionDate.Format(time.DateOnly),
			"completed":     it.Completed,
			"chapter_name":  it.ChapterName,
			"subject_name":  it.SubjectName,
		})
	}
	return out
}

// List serves the revision dashboard; an optional ?date=YYYY-MM-DD query
// narrows it to a single day.
func (h *RevisionHandler) List(c *gin.Context) {
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			RespondError(c, apierr.Invalid(fmt.Errorf("date must be YYYY-MM-DD")))
			return
		}
		date = &d
	}
	items, err := h.revisionService.List(c.Request.Context(), date)
	if err != nil {
		h.log.Error("List revisions failed", "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"revisions": revisionItemResponse(items)})
}

func (h *RevisionHandler) MarkCompleted(c *gin.Context) {
	revisionID, err := uuid.Parse(c.Param("revisionId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid revision id")))
		return
	}
	revision, err := h.revisionService.MarkCompleted(c.Request.Context(), revisionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"id":            revision.ID,
		"revision_date": revision.RevisionDate.Format(time.DateOnly),
		"completed":     revision.Completed,
	})
}
