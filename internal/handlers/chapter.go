package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/apierr"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
	"github.com/tushar-behera15/padh-ai-tracker/internal/services"
)

type ChapterHandler struct {
	log            *logger.Logger
	chapterService services.ChapterService
}

func NewChapterHandler(log *logger.Logger, chapterService services.ChapterService) *ChapterHandler {
	return &ChapterHandler{
		log:            log.With("handler", "ChapterHandler"),
		chapterService: chapterService,
	}
}

func (h *ChapterHandler) ListBySubject(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid subject id")))
		return
	}
	chapters, err := h.chapterService.ListBySubject(c.Request.Context(), subjectID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"chapters": chapters})
}

func (h *ChapterHandler) Create(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid subject id")))
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid request body")))
		return
	}
	chapter, err := h.chapterService.Create(c.Request.Context(), subjectID, req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, chapter)
}

func (h *ChapterHandler) Rename(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("chapterId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid chapter id")))
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid request body")))
		return
	}
	chapter, err := h.chapterService.Rename(c.Request.Context(), chapterID, req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, chapter)
}

func (h *ChapterHandler) Delete(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("chapterId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid chapter id")))
		return
	}
	if err := h.chapterService.Delete(c.Request.Context(), chapterID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "chapter deleted"})
}
