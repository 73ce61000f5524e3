package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ewill123/nec-callcenter/internal/incident"
	"github.com/ewill123/nec-callcenter/internal/middleware"
	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/ewill123/nec-callcenter/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IncidentHandler struct {
	svc       *incident.Service
	validator *validator.Validator
	logger    *zap.Logger
}

func NewIncidentHandler(svc *incident.Service, v *validator.Validator, logger *zap.Logger) *IncidentHandler {
	return &IncidentHandler{svc: svc, validator: v, logger: logger}
}

// Submit validates a JSON report and stores it.
func (h *IncidentHandler) Submit(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.validator.Validate(raw)
	if err != nil {
		var verrs validator.Errors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field
			}
			middleware.RecordValidationFailure(fields)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verrs})
			return
		}
		h.logger.Error("validation setup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": middleware.UnexpectedErrorMessage})
		return
	}

	stored, err := h.svc.Submit(c.Request.Context(), report)
	if err != nil {
		h.storageFailure(c, "insert", err, http.StatusInternalServerError)
		return
	}

	middleware.RecordSubmission(string(stored.IncidentChoice))
	c.JSON(http.StatusCreated, gin.H{"data": stored})
}

// List returns reports newest first, optionally restricted by ?type=.
func (h *IncidentHandler) List(c *gin.Context) {
	flag, ok := categoryQuery(c)
	if !ok {
		return
	}

	reports, err := h.svc.List(c.Request.Context(), flag)
	if err != nil {
		h.storageFailure(c, "select", err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

// Submissions is the dashboard feed: a bare array of every report.
func (h *IncidentHandler) Submissions(c *gin.Context) {
	reports, err := h.svc.List(c.Request.Context(), nil)
	if err != nil {
		h.storageFailure(c, "select", err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, reports)
}

func (h *IncidentHandler) Get(c *gin.Context) {
	report, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.storageFailure(c, "select", err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

type UpdateReportRequest struct {
	Resolution string       `json:"resolution"`
	Status     model.Status `json:"status" binding:"omitempty,oneof=resolved pending"`
}

// Update saves a resolution for one report.
func (h *IncidentHandler) Update(c *gin.Context) {
	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resolution := strings.TrimSpace(req.Resolution)
	if err := h.svc.Update(c.Request.Context(), c.Param("id"), resolution, req.Status); err != nil {
		h.storageFailure(c, "update", err, http.StatusBadRequest)
		return
	}

	middleware.RecordUpdate(string(model.StatusFor(resolution)))
	c.JSON(http.StatusOK, gin.H{"message": "Report updated successfully"})
}

// storageFailure answers with the store's message verbatim.
func (h *IncidentHandler) storageFailure(c *gin.Context, op string, err error, status int) {
	middleware.RecordStoreError(op)
	h.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

// categoryQuery reads ?type=. It writes a 400 and returns false for an
// unknown category; an absent or empty parameter means no filter.
func categoryQuery(c *gin.Context) (*model.IncidentChoice, bool) {
	raw := strings.TrimSpace(c.Query("type"))
	if raw == "" {
		return nil, true
	}
	choice, ok := model.ParseIncidentChoice(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident type"})
		return nil, false
	}
	return &choice, true
}
