package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ewill123/nec-callcenter/internal/incident"
	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/ewill123/nec-callcenter/internal/render"
	"github.com/ewill123/nec-callcenter/internal/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExportHandler struct {
	svc    *incident.Service
	logger *zap.Logger
}

func NewExportHandler(svc *incident.Service, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

// Export downloads reports as json, csv or md, optionally limited to one
// date (?date=) and one category (?type=).
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse(model.DateLayout, date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	flag, ok := categoryQuery(c)
	if !ok {
		return
	}

	reports, err := h.svc.List(c.Request.Context(), flag)
	if err != nil {
		h.logger.Error("export query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if date != "" {
		reports = view.Expand(reports, date).Reports
	}

	name := exportName(date)
	switch format {
	case "json":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", name))
		c.JSON(http.StatusOK, reports)
	case "csv":
		h.write(c, name+".csv", "text/csv", reports, render.WriteCSV)
	case "md", "markdown":
		h.write(c, name+".md", "text/markdown", reports, render.WriteMarkdown)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use json, csv, or md"})
	}
}

// PrintReport serves a print-ready page for one report.
func (h *ExportHandler) PrintReport(c *gin.Context) {
	report, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.html(c, []model.IncidentReport{*report})
}

// PrintDate serves every report of one date on a single print page, one
// report per sheet.
func (h *ExportHandler) PrintDate(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	reports, err := h.svc.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("print query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.html(c, reports)
}

func (h *ExportHandler) html(c *gin.Context, reports []model.IncidentReport) {
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, reports); err != nil {
		h.logger.Error("render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) write(c *gin.Context, filename, contentType string, reports []model.IncidentReport, fn func(io.Writer, []model.IncidentReport) error) {
	var buf bytes.Buffer
	if err := fn(&buf, reports); err != nil {
		h.logger.Error("export render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func exportName(date string) string {
	if date == "" {
		return "incident-reports"
	}
	return "incident-reports-" + date
}
