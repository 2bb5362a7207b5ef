package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"stockrecon/internal/logger"
	"stockrecon/internal/service/analyzer"
)

// DownloadTTL 报告下载链接有效期
const DownloadTTL = 30 * time.Minute

// Runner 分析服务
type Runner interface {
	Run(ctx context.Context, opts analyzer.Options) (*analyzer.RunResult, error)
	Status() analyzer.Status
}

// Handler API 处理器
type Handler struct {
	runner    Runner
	log       *logger.Logger
	downloads *reportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(runner Runner, log *logger.Logger) *Handler {
	return &Handler{
		runner:    runner,
		log:       logger.OrDefault(log).WithComponent("api"),
		downloads: newReportDownloadStore(),
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 执行分析
	router.POST("/analyze", h.Analyze)

	// 报告下载
	router.GET("/report/download/:token", h.DownloadReport)
}
