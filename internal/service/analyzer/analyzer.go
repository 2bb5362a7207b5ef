package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"stockrecon/internal/apperror"
	"stockrecon/internal/calculator"
	"stockrecon/internal/config"
	"stockrecon/internal/exporter"
	"stockrecon/internal/importer"
	"stockrecon/internal/logger"
	"stockrecon/internal/model"
)

// Options 单次运行参数
type Options struct {
	TargetMonth string // 覆盖配置中的分析月份，空表示沿用配置
	OutputDir   string // 非空时把报告写入该目录；否则只在内存中生成
	Progress    func(exporter.ProgressEvent)
}

// RunResult 一次分析运行的结果
type RunResult struct {
	RunID               string                  `json:"runId"`
	StartedAt           time.Time               `json:"startedAt"`
	Duration            time.Duration           `json:"duration"`
	TargetMonth         model.Month             `json:"targetMonth"`
	Import              *model.ImportReport     `json:"import"`
	Sheets              []exporter.SheetSummary `json:"sheets"`
	Discrepancies       int                     `json:"discrepancies"`
	VerificationSkipped bool                    `json:"verificationSkipped"`
	ReportPath          string                  `json:"reportPath,omitempty"`
	ReportName          string                  `json:"reportName"`

	Workbook []byte `json:"-"`
}

// Status 当前配置与最近一次运行
type Status struct {
	Suppliers   []string   `json:"suppliers"`
	Sites       []string   `json:"sites"`
	TargetMonth string     `json:"targetMonth"`
	LastRun     *RunResult `json:"lastRun,omitempty"`
}

// Analyzer 串联 加载 -> 计算 -> 导出
type Analyzer struct {
	app      *config.AppConfig
	log      *logger.Logger
	importer *importer.Coordinator
	exporter *exporter.Exporter
	now      func() time.Time

	runMu sync.Mutex // 同一时刻只允许一次运行

	mu   sync.RWMutex
	last *RunResult
}

// New 创建分析服务
func New(app *config.AppConfig, log *logger.Logger) *Analyzer {
	log = logger.OrDefault(log)
	return &Analyzer{
		app:      app,
		log:      log.WithComponent("analyzer"),
		importer: importer.NewCoordinator(log),
		exporter: exporter.NewExporter(log),
		now:      time.Now,
	}
}

// Run 执行一次完整分析
func (a *Analyzer) Run(ctx context.Context, opts Options) (*RunResult, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	start := a.now()
	res := &RunResult{RunID: uuid.NewString(), StartedAt: start}
	log := a.log.With("run_id", res.RunID)

	cfg, err := a.analysisConfig(opts.TargetMonth)
	if err != nil {
		return nil, err
	}
	res.TargetMonth = cfg.TargetMonth

	loaded, err := a.importer.Load(ctx, buildPlan(a.app, cfg))
	if err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	res.Import = loaded.Report
	if loaded.Dataset.Empty() {
		noData := apperror.NewNoInputData().WithDetail("failed_sources", loaded.Report.FailedSources)
		log.Errorw("analysis aborted", "code", noData.Code, "sources", loaded.Report.TotalSources)
		return res, noData
	}

	result := calculator.NewEngine(cfg, a.log).Run(loaded.Dataset)
	res.Discrepancies = len(result.Discrepancies)
	res.VerificationSkipped = result.VerificationSkipped
	tables := result.Tables()

	if opts.OutputDir != "" {
		path, summary, err := a.exporter.SaveTo(opts.OutputDir, tables, opts.Progress)
		if err != nil {
			return nil, fmt.Errorf("export report: %w", err)
		}
		res.ReportPath = path
		res.ReportName = filepath.Base(path)
		res.Sheets = summary
	} else {
		data, summary, err := a.exporter.Bytes(tables)
		if err != nil {
			return nil, fmt.Errorf("export report: %w", err)
		}
		res.Workbook = data
		res.ReportName = exporter.ReportFileName(start)
		res.Sheets = summary
	}

	res.Duration = a.now().Sub(start)
	log.Infow("analysis complete",
		"target_month", res.TargetMonth,
		"sheets", len(res.Sheets),
		"discrepancies", res.Discrepancies,
		"duration_ms", res.Duration.Milliseconds(),
	)

	a.mu.Lock()
	a.last = res
	a.mu.Unlock()
	return res, nil
}

// LastRun 最近一次成功运行
func (a *Analyzer) LastRun() *RunResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Status 配置概览
func (a *Analyzer) Status() Status {
	st := Status{
		Sites:       append([]string(nil), a.app.Analysis.SiteColumns...),
		TargetMonth: a.app.Analysis.TargetMonth,
		LastRun:     a.LastRun(),
	}
	for _, s := range a.app.Suppliers {
		st.Suppliers = append(st.Suppliers, s.Key)
	}
	return st
}

func (a *Analyzer) analysisConfig(targetMonth string) (*model.AnalysisConfig, error) {
	app := *a.app
	if targetMonth != "" {
		app.Analysis.TargetMonth = targetMonth
	}
	return app.AnalysisConfig()
}

// buildPlan 由配置生成加载计划
func buildPlan(app *config.AppConfig, cfg *model.AnalysisConfig) importer.Plan {
	plan := importer.Plan{
		Sites:   cfg.Sites(),
		Aliases: app.Ontology,
	}
	if app.OnHand.Path != "" {
		plan.OnHand = importer.SourceSpec{
			Key:   importer.OnHandSource,
			Path:  app.DataPath(app.OnHand.Path),
			Sheet: app.OnHand.Sheet,
		}
	}
	for _, s := range app.Suppliers {
		key := strings.TrimSpace(s.Key)
		plan.Suppliers = append(plan.Suppliers, importer.SourceSpec{
			Key:        key,
			Path:       app.DataPath(s.Path),
			Sheet:      s.Sheet,
			Warehouses: cfg.WarehouseColumns(key),
		})
	}
	return plan
}
