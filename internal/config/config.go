package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"stockrecon/internal/apperror"
	"stockrecon/internal/model"
)

// 默认配置文件名
const FileName = "config.toml"

// 环境变量覆盖
const (
	EnvTargetMonth = "STOCKRECON_TARGET_MONTH"
	EnvOutputDir   = "STOCKRECON_OUTPUT_DIR"
)

// AppConfig 应用配置
type AppConfig struct {
	Server    ServerConfig        `toml:"server"`
	Data      DataConfig          `toml:"data"`
	Log       LogConfig           `toml:"log"`
	Analysis  AnalysisSection     `toml:"analysis"`
	OnHand    SourceConfig        `toml:"onhand"`
	Suppliers []SupplierConfig    `toml:"suppliers"`
	Ontology  map[string][]string `toml:"ontology"`

	baseDir string // 相对路径的基准目录
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir    string `toml:"data_dir"`
	OutputDir  string `toml:"output_dir"`
	OpenReport bool   `toml:"open_report"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// AnalysisSection 分析参数
type AnalysisSection struct {
	TargetMonth         string   `toml:"target_month"`
	SiteColumns         []string `toml:"site_columns"`
	ExcludedWarehouses  []string `toml:"excluded_warehouses"`
	IndoorWarehouses    []string `toml:"indoor_warehouses"`
	DangerousWarehouses []string `toml:"dangerous_warehouses"`
}

// SourceConfig 输入文件
type SourceConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet"`
}

// SupplierConfig 供应商移动表
type SupplierConfig struct {
	Key              string   `toml:"key"`
	Path             string   `toml:"path"`
	Sheet            string   `toml:"sheet"`
	WarehouseColumns []string `toml:"warehouse_columns"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string // 实际读取的配置文件，空表示使用默认配置
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:   "data",
			OutputDir: "reports",
		},
		Log: LogConfig{
			Level: "info",
		},
		Analysis: AnalysisSection{
			TargetMonth:         "2025-06",
			SiteColumns:         []string{"DAS", "MIR", "SHU", "AGI"},
			ExcludedWarehouses:  []string{"Shifting"},
			IndoorWarehouses:    []string{"DSV Indoor", "Hauler Indoor", "DSV Al Markaz", "AAA Storage", "DHL WH"},
			DangerousWarehouses: []string{"AAA Storage"},
		},
		OnHand: SourceConfig{
			Path:  "HVDC Stock OnHand Report.xlsx",
			Sheet: "Case List",
		},
		Suppliers: []SupplierConfig{
			{
				Key:              "HITACHI",
				Path:             "HVDC WAREHOUSE_HITACHI(HE).xlsx",
				Sheet:            "Case List",
				WarehouseColumns: []string{"DSV Outdoor", "DSV Indoor", "DSV Al Markaz", "Hauler Indoor", "DSV MZP", "MOSB"},
			},
			{
				Key:              "HITACHI_LOCAL",
				Path:             "HVDC WAREHOUSE_HITACHI(HE_LOCAL).xlsx",
				Sheet:            "CASE LIST",
				WarehouseColumns: []string{"DSV Outdoor", "DSV Al Markaz", "DSV MZP", "MOSB"},
			},
			{
				Key:              "HITACHI_LOT",
				Path:             "HVDC WAREHOUSE_HITACHI(HE-0214,0252).xlsx",
				Sheet:            "CASE LIST",
				WarehouseColumns: []string{"DSV Indoor", "DHL WH", "DSV Al Markaz", "AAA Storage"},
			},
			{
				Key:              "SIEMENS",
				Path:             "HVDC WAREHOUSE_SIMENSE(SIM).xlsx",
				Sheet:            "CASE LIST",
				WarehouseColumns: []string{"DSV Outdoor", "DSV Indoor", "DSV Al Markaz", "MOSB", "AAA Storage"},
			},
		},
		Ontology: map[string][]string{},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 加载配置并返回元信息
//
// path 为空时读取可执行文件同目录下的 config.toml；文件不存在时使用默认配置。
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		exeDir, err := GetExeDir()
		if err != nil {
			// 无法获取可执行文件目录，使用当前目录
			exeDir = "."
		}
		path = filepath.Join(exeDir, FileName)
	}
	config.baseDir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			// 配置文件不存在，使用默认配置
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, fmt.Errorf("read config %s: %w", path, err)
	}

	info.Path = path
	info.PortSpecified = isPortSpecifiedInToml(data)

	// [[suppliers]] 出现时整体替换默认供应商
	config.Suppliers = nil
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, fmt.Errorf("parse config %s: %w", path, err)
	}
	if config.Suppliers == nil {
		config.Suppliers = DefaultConfig().Suppliers
	}

	applyEnv(config)
	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// applyEnv 环境变量覆盖
func applyEnv(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTargetMonth)); v != "" {
		config.Analysis.TargetMonth = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		config.Data.OutputDir = v
	}
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetBaseDir 设置相对路径的基准目录
func (c *AppConfig) SetBaseDir(dir string) {
	c.baseDir = dir
}

func (c *AppConfig) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	base := c.baseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, p)
}

// DataPath 输入文件路径：绝对路径原样返回，否则相对于数据目录
func (c *AppConfig) DataPath(file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.abs(c.Data.DataDir), file)
}

// OutputDir 报告输出目录
func (c *AppConfig) OutputDir() string {
	return c.abs(c.Data.OutputDir)
}

// EnsureOutputDir 确保输出目录存在
func EnsureOutputDir(config *AppConfig) (string, error) {
	dir := config.OutputDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// AnalysisConfig 校验并生成只读的分析配置
func (c *AppConfig) AnalysisConfig() (*model.AnalysisConfig, error) {
	var target model.Month
	if strings.TrimSpace(c.Analysis.TargetMonth) != "" {
		m, err := model.ParseMonth(c.Analysis.TargetMonth)
		if err != nil {
			return nil, apperror.NewInvalidConfig(fmt.Sprintf("target_month %q must be YYYY-MM", c.Analysis.TargetMonth)).WithCause(err)
		}
		target = m
	}
	if len(c.Analysis.SiteColumns) == 0 {
		return nil, apperror.NewInvalidConfig("site_columns must not be empty")
	}
	if len(c.Suppliers) == 0 {
		return nil, apperror.NewInvalidConfig("at least one supplier is required")
	}

	out := &model.AnalysisConfig{
		TargetMonth:         target,
		SiteColumns:         append([]string(nil), c.Analysis.SiteColumns...),
		ExcludedWarehouses:  append([]string(nil), c.Analysis.ExcludedWarehouses...),
		IndoorWarehouses:    append([]string(nil), c.Analysis.IndoorWarehouses...),
		DangerousWarehouses: append([]string(nil), c.Analysis.DangerousWarehouses...),
	}

	seen := make(map[string]bool, len(c.Suppliers))
	sites := make(map[string]bool, len(c.Analysis.SiteColumns))
	for _, s := range c.Analysis.SiteColumns {
		sites[s] = true
	}
	for _, s := range c.Suppliers {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			return nil, apperror.NewInvalidConfig("supplier key must not be empty")
		}
		if seen[key] {
			return nil, apperror.NewInvalidConfig(fmt.Sprintf("duplicate supplier key %q", key))
		}
		seen[key] = true
		for _, w := range s.WarehouseColumns {
			if sites[w] {
				return nil, apperror.NewInvalidConfig(fmt.Sprintf("supplier %s: %q is configured as both warehouse and site", key, w))
			}
		}
		out.Suppliers = append(out.Suppliers, model.SupplierLayout{
			Key:              key,
			WarehouseColumns: append([]string(nil), s.WarehouseColumns...),
		})
	}
	return out, nil
}
