package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/apierr"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
	"github.com/tushar-behera15/padh-ai-tracker/internal/services"
)

type SubjectHandler struct {
	log            *logger.Logger
	subjectService services.SubjectService
}

func NewSubjectHandler(log *logger.Logger, subjectService services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		log:            log.With("handler", "SubjectHandler"),
		subjectService: subjectService,
	}
}

func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.subjectService.List(c.Request.Context())
	if err != nil {
		h.log.Error("List subjects failed", "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"subjects": subjects})
}

func (h *SubjectHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid request body")))
		return
	}
	subject, err := h.subjectService.Create(c.Request.Context(), req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, subject)
}

func (h *SubjectHandler) Rename(c *gin.Context) {
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
	subject, err := h.subjectService.Rename(c.Request.Context(), subjectID, req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, subject)
}

func (h *SubjectHandler) Delete(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		RespondError(c, apierr.Invalid(fmt.Errorf("invalid subject id")))
		return
	}
	if err := h.subjectService.Delete(c.Request.Context(), subjectID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "subject deleted"})
}
