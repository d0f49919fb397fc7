package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Jose-Ibz/VIM/internal/domain"
	"github.com/Jose-Ibz/VIM/internal/export"
	"github.com/Jose-Ibz/VIM/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RunHandler struct {
	runService *service.RunService
}

func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

// CreateRun accepts one inventory export and runs the full computation
// pass. The whole run fails with a single message when the file is
// structurally unusable; no partial reports are exposed.
func (h *RunHandler) CreateRun(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer src.Close()

	opts := service.RunOptions{AsOf: time.Now()}
	if raw, ok := c.GetPostForm("snapshot"); ok {
		force, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "snapshot must be a boolean"})
			return
		}
		opts.Snapshot = &force
	}

	result, err := h.runService.Process(c.Request.Context(), src, opts)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("run failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result.Summary)
}

// GetRun returns the summary of a stored run.
func (h *RunHandler) GetRun(c *gin.Context) {
	result, ok := h.loadRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result.Summary)
}

// DownloadReport streams one of the run's spreadsheet reports.
func (h *RunHandler) DownloadReport(c *gin.Context) {
	result, ok := h.loadRun(c)
	if !ok {
		return
	}

	var (
		buf  bytes.Buffer
		err  error
		name = c.Param("report")
	)
	switch name {
	case "normal.xlsx":
		err = export.WriteOrderXLSX(&buf, "Orders", result.Reports.Normal)
	case "campaign.xlsx":
		err = export.WriteOrderXLSX(&buf, "Campaign", result.Reports.Campaign)
	case "exception.xlsx":
		err = export.WriteOrderXLSX(&buf, "Expensive", result.Reports.Exception)
	case "kpi.xlsx":
		err = export.WriteKPIXLSX(&buf, result.Reports.KPI, result.Reports.Health, result.Reports.Anomalies)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown report"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("report", name).Msg("failed to build report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// DownloadImportCSV streams the two-column reorder-import file.
func (h *RunHandler) DownloadImportCSV(c *gin.Context) {
	result, ok := h.loadRun(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteImportCSV(&buf, result.Reports.ImportLines); err != nil {
		log.Error().Err(err).Msg("failed to build import csv")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build import csv"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="reorder_import.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *RunHandler) loadRun(c *gin.Context) (*domain.RunResult, bool) {
	id := c.Param("id")
	result, found, err := h.runService.Get(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("run_id", id).Msg("failed to load run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return nil, false
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return nil, false
	}
	return result, true
}
