package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"stockrecon/internal/apperror"
	"stockrecon/internal/logger"
	"stockrecon/internal/model"
	"stockrecon/internal/parser"
)

// OnHandSource 现存量来源在导入报告中的名称
const OnHandSource = "ONHAND"

// maxParallelFiles 同时读取的工作簿数量
const maxParallelFiles = 4

// SourceSpec 单个输入文件
type SourceSpec struct {
	Key        string   // 供应商 key；现存量为 ONHAND
	Path       string   // 工作簿路径
	Sheet      string   // 首选工作表，空或不存在时自动识别
	Warehouses []string // 供应商仓库列（配置顺序）
}

// Plan 一次加载的全部输入
type Plan struct {
	OnHand    SourceSpec // Path 为空表示不加载现存量
	Suppliers []SourceSpec
	Sites     []string
	Aliases   map[string][]string
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/source_start/source_done/warning/done
	Message   string    `json:"message"` // 事件消息
	Data      any       `json:"data"`    // 附加数据
	Timestamp time.Time `json:"timestamp"`
}

// LoadResult 加载结果
type LoadResult struct {
	Dataset *model.Dataset
	Report  *model.ImportReport
}

// Coordinator 导入协调器
type Coordinator struct {
	log *logger.Logger
}

// NewCoordinator 创建导入协调器
func NewCoordinator(log *logger.Logger) *Coordinator {
	return &Coordinator{log: logger.OrDefault(log).WithComponent("importer")}
}

// Import 异步加载，返回进度通道；最后一个事件为 done，Data 为 *LoadResult
func (c *Coordinator) Import(ctx context.Context, plan Plan) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		res, err := c.load(ctx, plan, progressChan)
		if err != nil {
			c.sendProgress(progressChan, ProgressEvent{Type: "error", Message: err.Error(), Timestamp: time.Now()})
			return
		}
		c.sendProgress(progressChan, ProgressEvent{Type: "done", Message: "加载完成", Data: res, Timestamp: time.Now()})
	}()

	return progressChan
}

// Load 同步加载全部输入
//
// 单个来源失败只记录到报告中，不中断加载；仅在 ctx 取消时返回错误。
func (c *Coordinator) Load(ctx context.Context, plan Plan) (*LoadResult, error) {
	return c.load(ctx, plan, nil)
}

func (c *Coordinator) load(ctx context.Context, plan Plan, progress chan ProgressEvent) (*LoadResult, error) {
	start := time.Now()
	c.sendProgress(progress, ProgressEvent{
		Type:      "start",
		Message:   fmt.Sprintf("开始加载 %d 个供应商文件", len(plan.Suppliers)),
		Timestamp: time.Now(),
	})

	ds := &model.Dataset{Movements: make(map[string][]model.CaseRecord, len(plan.Suppliers))}
	report := &model.ImportReport{}

	results := make([]model.SheetImportResult, len(plan.Suppliers))
	records := make([][]model.CaseRecord, len(plan.Suppliers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)
	for i, spec := range plan.Suppliers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.sendProgress(progress, ProgressEvent{
				Type:      "source_start",
				Message:   fmt.Sprintf("正在读取 %s", spec.Key),
				Data:      map[string]string{"source": spec.Key, "path": spec.Path},
				Timestamp: time.Now(),
			})
			records[i], results[i] = c.loadSupplier(spec, plan)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}

	for i, spec := range plan.Suppliers {
		res := results[i]
		report.Add(res)
		if res.Status == model.ImportStatusImported {
			ds.Movements[spec.Key] = records[i]
		}
		c.sendProgress(progress, ProgressEvent{Type: "source_done", Message: spec.Key, Data: res, Timestamp: time.Now()})
	}

	if plan.OnHand.Path != "" {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load on-hand: %w", err)
		}
		onHand, res := c.loadOnHand(plan)
		report.Add(res)
		if res.Status == model.ImportStatusImported {
			ds.OnHand = onHand
		}
		c.sendProgress(progress, ProgressEvent{Type: "source_done", Message: OnHandSource, Data: res, Timestamp: time.Now()})
	} else {
		c.log.Warnw("no on-hand file configured")
	}

	report.Duration = time.Since(start)
	c.log.Infow("inputs loaded",
		"sources", report.TotalSources,
		"imported", report.ImportedSources,
		"failed", report.FailedSources,
		"rows", report.ImportedRows,
		"dropped_rows", report.DroppedRows,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return &LoadResult{Dataset: ds, Report: report}, nil
}

// loadSupplier 读取单个供应商文件；失败时记录 SUPPLIER_LOAD_FAILURE
func (c *Coordinator) loadSupplier(spec SourceSpec, plan Plan) ([]model.CaseRecord, model.SheetImportResult) {
	start := time.Now()
	res := model.SheetImportResult{Source: spec.Key, Path: spec.Path, SheetName: spec.Sheet}

	p := parser.NewMovementParser(spec.Key, spec.Warehouses, plan.Sites, plan.Aliases)
	rec, rows, err := readSheet(spec, p.Recognizer())
	if err != nil {
		return nil, c.fail(res, spec.Key, err, start)
	}

	records, pr := p.ParseRows(rec, rows)
	c.fillResult(&res, rec, pr)
	res.Duration = time.Since(start)
	c.log.Infow("supplier loaded",
		"supplier", spec.Key,
		"sheet", rec.SheetName,
		"auto_detected", rec.AutoDetected,
		"header_row", rec.HeaderRow,
		"records", pr.ImportedRows,
		"dropped_rows", pr.DroppedRows,
		"warnings", pr.Warnings,
	)
	return records, res
}

// loadOnHand 读取现存量快照
func (c *Coordinator) loadOnHand(plan Plan) ([]model.OnHandRecord, model.SheetImportResult) {
	start := time.Now()
	spec := plan.OnHand
	spec.Key = OnHandSource
	res := model.SheetImportResult{Source: OnHandSource, Path: spec.Path, SheetName: spec.Sheet}

	p := parser.NewOnHandParser(plan.Aliases)
	rec, rows, err := readSheet(spec, p.Recognizer())
	if err != nil {
		return nil, c.fail(res, OnHandSource, err, start)
	}

	records, pr := p.ParseRows(rec, rows)
	c.fillResult(&res, rec, pr)
	res.Duration = time.Since(start)
	c.log.Infow("on-hand loaded", "sheet", rec.SheetName, "records", pr.ImportedRows, "dropped_rows", pr.DroppedRows)
	return records, res
}

// readSheet 打开工作簿并定位表头；缺少箱号列视为失败
func readSheet(spec SourceSpec, recognizer *parser.SheetRecognizer) (parser.SheetRecognitionResult, [][]string, error) {
	if _, err := os.Stat(spec.Path); err != nil {
		return parser.SheetRecognitionResult{}, nil, fmt.Errorf("stat %s: %w", spec.Path, err)
	}

	f, err := excelize.OpenFile(spec.Path)
	if err != nil {
		return parser.SheetRecognitionResult{}, nil, fmt.Errorf("open %s: %w", spec.Path, err)
	}
	defer f.Close()

	read := func(sheet string) ([][]string, error) {
		return f.GetRows(sheet, excelize.Options{RawCellValue: true})
	}
	rec, rows, err := recognizer.Recognize(f.GetSheetList(), spec.Sheet, read)
	if err != nil {
		return rec, nil, err
	}
	if !rec.Found() {
		return rec, nil, apperror.NewMissingRequiredField(string(parser.FieldCaseNo), 0).
			WithDetail("sheet", rec.SheetName)
	}
	return rec, rows, nil
}

func (c *Coordinator) fail(res model.SheetImportResult, source string, err error, start time.Time) model.SheetImportResult {
	loadErr := apperror.NewSupplierLoadFailure(source, err)
	res.Status = model.ImportStatusError
	res.Errors = []string{loadErr.Error()}
	res.Duration = time.Since(start)

	fields := []any{"code", loadErr.Code, "source", source, "path", res.Path, "error", err}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		fields = append(fields, "cause_code", appErr.Code)
	}
	c.log.Warnw("source load failed", fields...)
	return res
}

func (c *Coordinator) fillResult(res *model.SheetImportResult, rec parser.SheetRecognitionResult, pr parser.ParseResult) {
	res.SheetName = rec.SheetName
	res.AutoDetected = rec.AutoDetected
	res.HeaderRow = rec.HeaderRow
	res.ImportedRows = pr.ImportedRows
	res.DroppedRows = pr.DroppedRows
	res.Warnings = pr.Warnings
	res.Errors = pr.Errors
	res.Status = model.ImportStatusImported
	if pr.ImportedRows == 0 {
		res.Status = model.ImportStatusSkipped
	}
	if pr.DroppedRows > 0 {
		c.log.Warnw("rows dropped", "source", res.Source, "sheet", rec.SheetName, "dropped_rows", pr.DroppedRows)
	}
}

// sendProgress 发送进度事件（同步加载时 ch 为 nil）
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
