package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockrecon/internal/apperror"
	"stockrecon/internal/config"
	"stockrecon/internal/exporter"
	"stockrecon/internal/logger"
	"stockrecon/internal/server"
	"stockrecon/internal/service/analyzer"
	"stockrecon/internal/util"
)

var (
	configPath = flag.String("config", "", "配置文件路径 (默认: 可执行文件目录下的 config.toml)")
	target     = flag.String("target", "", "分析月份 YYYY-MM (覆盖配置文件)")
	outDir     = flag.String("out", "", "报告输出目录 (覆盖配置文件)")
	serve      = flag.Bool("serve", false, "以 HTTP 服务方式运行")
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	openReport = flag.Bool("open", false, "生成后用默认程序打开报告")
	devMode    = flag.Bool("dev", false, "开发模式")
)

func main() {
	flag.Parse()

	cfg, info, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
		cfg.Log.Development = true
	}
	if *outDir != "" {
		cfg.Data.OutputDir = *outDir
	}
	if *openReport {
		cfg.Data.OpenReport = true
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if info.Path != "" {
		log.Infow("config loaded", "path", info.Path)
	} else {
		log.Infow("config file not found, using defaults")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := analyzer.New(cfg, log)

	if *serve {
		srv := server.NewServer(svc, cfg.Server.DevMode, log)
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := srv.Run(ctx, addr); err != nil {
			log.Errorw("server failed", "error", err)
			os.Exit(1)
		}
		log.Infow("server stopped")
		return
	}

	code := runOnce(ctx, cfg, svc, log)
	stop()
	_ = log.Sync()
	os.Exit(code)
}

// runOnce 单次分析，返回进程退出码
func runOnce(ctx context.Context, cfg *config.AppConfig, svc *analyzer.Analyzer, log *logger.Logger) int {
	dir, err := config.EnsureOutputDir(cfg)
	if err != nil {
		log.Errorw("create output dir failed", "error", err)
		return 1
	}

	res, err := svc.Run(ctx, analyzer.Options{
		TargetMonth: *target,
		OutputDir:   dir,
		Progress: func(evt exporter.ProgressEvent) {
			log.Debugw("export progress", "percent", evt.Percent, "stage", evt.Stage, "sheet", evt.Sheet, "rows", evt.Rows)
		},
	})
	if err != nil {
		fields := []any{"error", err}
		if appErr, ok := apperror.As(err); ok {
			fields = append(fields, "code", appErr.Code)
		}
		log.Errorw("analysis failed", fields...)
		return 1
	}

	log.Infow("analysis finished",
		"run_id", res.RunID,
		"target_month", res.TargetMonth.String(),
		"report", res.ReportPath,
		"discrepancies", res.Discrepancies,
		"verification_skipped", res.VerificationSkipped,
		"failed_sources", res.Import.FailedSources,
		"duration_ms", res.Duration.Milliseconds(),
	)

	if cfg.Data.OpenReport {
		if err := util.OpenFile(res.ReportPath); err != nil {
			log.Warnw("open report failed", "path", res.ReportPath, "error", err)
		}
	}
	return 0
}
