package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ewill123/nec-callcenter/internal/incident"
	"github.com/ewill123/nec-callcenter/internal/middleware"
	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/ewill123/nec-callcenter/internal/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	svc      *incident.Service
	pageSize int
	logger   *zap.Logger
}

func NewDashboardHandler(svc *incident.Service, pageSize int, logger *zap.Logger) *DashboardHandler {
	if pageSize < 1 {
		pageSize = view.PageSize
	}
	return &DashboardHandler{svc: svc, pageSize: pageSize, logger: logger}
}

// Page returns one page of reports grouped by date.
func (h *DashboardHandler) Page(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	flag, ok := categoryQuery(c)
	if !ok {
		return
	}

	all, err := h.svc.List(c.Request.Context(), flag)
	if err != nil {
		h.failure(c, err)
		return
	}

	c.JSON(http.StatusOK, view.BuildPage(all, page, h.pageSize))
}

// Date expands one date to every report logged on it, across pages.
func (h *DashboardHandler) Date(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	flag, ok := categoryQuery(c)
	if !ok {
		return
	}

	all, err := h.svc.List(c.Request.Context(), flag)
	if err != nil {
		h.failure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view.Expand(all, date)})
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.failure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (h *DashboardHandler) failure(c *gin.Context, err error) {
	middleware.RecordStoreError("select")
	h.logger.Error("dashboard query failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
