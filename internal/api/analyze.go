package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"stockrecon/internal/apperror"
	"stockrecon/internal/exporter"
	"stockrecon/internal/model"
	"stockrecon/internal/service/analyzer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyzeRequest 分析请求
type AnalyzeRequest struct {
	TargetMonth string `json:"targetMonth"`
}

// RunResponse 分析结果摘要
type RunResponse struct {
	RunID               string                  `json:"runId"`
	StartedAt           time.Time               `json:"startedAt"`
	DurationMs          int64                   `json:"durationMs"`
	TargetMonth         string                  `json:"targetMonth"`
	Import              *model.ImportReport     `json:"import"`
	Sheets              []exporter.SheetSummary `json:"sheets"`
	Discrepancies       int                     `json:"discrepancies"`
	VerificationSkipped bool                    `json:"verificationSkipped"`
	ReportName          string                  `json:"reportName"`
}

// AnalyzeResponse 分析响应
type AnalyzeResponse struct {
	RunResponse
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func newRunResponse(r *analyzer.RunResult) *RunResponse {
	return &RunResponse{
		RunID:               r.RunID,
		StartedAt:           r.StartedAt,
		DurationMs:          r.Duration.Milliseconds(),
		TargetMonth:         r.TargetMonth.String(),
		Import:              r.Import,
		Sheets:              r.Sheets,
		Discrepancies:       r.Discrepancies,
		VerificationSkipped: r.VerificationSkipped,
		ReportName:          r.ReportName,
	}
}

// Analyze 加载输入并生成报告
// POST /api/analyze
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	res, err := h.runner.Run(c.Request.Context(), analyzer.Options{TargetMonth: req.TargetMonth})
	if err != nil {
		h.respondError(c, err, res)
		return
	}

	token, expiresAt := h.downloads.put(reportDownload{
		name:  res.ReportName,
		data:  res.Workbook,
		runID: res.RunID,
	}, DownloadTTL)

	c.JSON(http.StatusOK, AnalyzeResponse{
		RunResponse: *newRunResponse(res),
		DownloadURL: "/api/report/download/" + token,
		ExpiresAt:   expiresAt,
	})
}

// DownloadReport 下载生成的报告（一次性）
// GET /api/report/download/:token
func (h *Handler) DownloadReport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.name))
	c.Data(http.StatusOK, xlsxContentType, item.data)
	h.downloads.delete(token)
	h.log.Infow("report downloaded", "run_id", item.runID, "bytes", len(item.data))
}

func (h *Handler) respondError(c *gin.Context, err error, res *analyzer.RunResult) {
	status := apperror.HTTPStatus(err)
	body := gin.H{"error": err.Error()}
	if appErr, ok := apperror.As(err); ok {
		body["code"] = appErr.Code
		body["error"] = appErr.Message
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}
	if res != nil && res.Import != nil {
		body["import"] = res.Import
	}
	if status >= http.StatusInternalServerError {
		h.log.Errorw("analysis failed", "error", err)
	} else {
		h.log.Warnw("analysis rejected", "status", status, "error", err)
	}
	c.JSON(status, body)
}

func contentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", name, url.PathEscape(name))
}
