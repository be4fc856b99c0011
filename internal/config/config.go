package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "PRODBOARD"

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" envconfig:"SERVER"`
	Security    SecurityConfig    `yaml:"security" envconfig:"SECURITY"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
	Paths       PathsConfig       `yaml:"paths" envconfig:"PATHS"`
	Sources     SourcesConfig     `yaml:"sources" envconfig:"SOURCES"`
	Composition CompositionConfig `yaml:"composition" envconfig:"COMPOSITION"`
	Projection  ProjectionConfig  `yaml:"projection" envconfig:"PROJECTION"`
	Dashboard   DashboardConfig   `yaml:"dashboard" envconfig:"DASHBOARD"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// SourcesConfig locates the production dashboard sources. A location is an
// http(s) URL, a file:// URL or a plain path; ".xlsx" locations may name a
// sheet after '#'.
type SourcesConfig struct {
	Orders          string        `yaml:"orders" envconfig:"ORDERS"`
	Capacity        string        `yaml:"capacity" envconfig:"CAPACITY"`
	Planning        string        `yaml:"planning" envconfig:"PLANNING"`
	PreProduction   string        `yaml:"pre_production" envconfig:"PRE_PRODUCTION"`
	Labor           string        `yaml:"labor" envconfig:"LABOR"`
	Warehousing     string        `yaml:"warehousing" envconfig:"WAREHOUSING"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT"`
	MaxConcurrent   int           `yaml:"max_concurrent" envconfig:"MAX_CONCURRENT"`
	SectorFirstYear int           `yaml:"sector_first_year" envconfig:"SECTOR_FIRST_YEAR"`
	SectorMonths    int           `yaml:"sector_months" envconfig:"SECTOR_MONTHS"`
}

// CompositionConfig locates the unit cost composition sources.
type CompositionConfig struct {
	Papers      string `yaml:"papers" envconfig:"PAPERS"`
	Cover       string `yaml:"cover" envconfig:"COVER"`
	Core        string `yaml:"core" envconfig:"CORE"`
	Endpaper    string `yaml:"endpaper" envconfig:"ENDPAPER"`
	Accessories string `yaml:"accessories" envconfig:"ACCESSORIES"`
	Catalog     string `yaml:"catalog" envconfig:"CATALOG"`
	Wire        string `yaml:"wire" envconfig:"WIRE"`
}

// ProjectionConfig holds the payroll constants of the cost projector.
type ProjectionConfig struct {
	TableSalary         float64 `yaml:"table_salary" envconfig:"TABLE_SALARY"`
	FinishingSalary     float64 `yaml:"finishing_salary" envconfig:"FINISHING_SALARY"`
	MachineSalary       float64 `yaml:"machine_salary" envconfig:"MACHINE_SALARY"`
	MonthlyBaseHours    float64 `yaml:"monthly_base_hours" envconfig:"MONTHLY_BASE_HOURS"`
	OvertimePremium     float64 `yaml:"overtime_premium" envconfig:"OVERTIME_PREMIUM"`
	MealVoucherPerDay   float64 `yaml:"meal_voucher_per_day" envconfig:"MEAL_VOUCHER_PER_DAY"`
	FreelancerDailyRate float64 `yaml:"freelancer_daily_rate" envconfig:"FREELANCER_DAILY_RATE"`
	FGTSRate            float64 `yaml:"fgts_rate" envconfig:"FGTS_RATE"`
	FreelancerYield     float64 `yaml:"freelancer_yield" envconfig:"FREELANCER_YIELD"`
	DailyHours          float64 `yaml:"daily_hours" envconfig:"DAILY_HOURS"`
	SaturdayHours       float64 `yaml:"saturday_hours" envconfig:"SATURDAY_HOURS"`
	DefaultFinishing    int     `yaml:"default_finishing" envconfig:"DEFAULT_FINISHING"`
	DefaultMachine      int     `yaml:"default_machine" envconfig:"DEFAULT_MACHINE"`
	Months              int     `yaml:"months" envconfig:"MONTHS"`
	HistoryWindow       int     `yaml:"history_window" envconfig:"HISTORY_WINDOW"`
}

// DashboardConfig holds defaults of the comparison views.
type DashboardConfig struct {
	BaseYear      int `yaml:"base_year" envconfig:"BASE_YEAR"`
	CurrentYear   int `yaml:"current_year" envconfig:"CURRENT_YEAR"`
	CutoffMonth   int `yaml:"cutoff_month" envconfig:"CUTOFF_MONTH"`
	TopK          int `yaml:"top_k" envconfig:"TOP_K"`
	HistogramBins int `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS"`
}

// Load loads configuration from a .env file, environment variables and an
// optional YAML config file. Environment values win over file values.
func Load() (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = fileConfig
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from YAML file over the defaults
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if strings.TrimSpace(c.Sources.Orders) == "" {
		return fmt.Errorf("orders source location is required")
	}

	if strings.TrimSpace(c.Sources.Capacity) == "" {
		return fmt.Errorf("capacity source location is required")
	}

	if c.Sources.SectorMonths <= 0 {
		return fmt.Errorf("sector month window must be positive: %d", c.Sources.SectorMonths)
	}

	if c.Sources.MaxConcurrent <= 0 {
		c.Sources.MaxConcurrent = 1
	}

	if c.Projection.MonthlyBaseHours <= 0 {
		return fmt.Errorf("monthly base hours must be positive")
	}

	if c.Projection.Months <= 0 || c.Projection.HistoryWindow <= 0 {
		return fmt.Errorf("projection months and history window must be positive")
	}

	if c.Dashboard.CutoffMonth < 1 || c.Dashboard.CutoffMonth > 12 {
		return fmt.Errorf("invalid comparison cutoff month: %d", c.Dashboard.CutoffMonth)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/prodboard.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"prodboard.yaml",
		"configs/prodboard.yaml",
		"../configs/prodboard.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  45 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/prodboard.log",
		},
		Paths: PathsConfig{
			ReportsDir: "data/reports",
			LogsDir:    "logs",
		},
		Sources: SourcesConfig{
			Orders:          DefaultOrdersURL,
			Capacity:        DefaultCapacityURL,
			Planning:        DefaultPlanningURL,
			PreProduction:   DefaultPreProductionURL,
			Labor:           DefaultLaborURL,
			Warehousing:     DefaultWarehousingURL,
			FetchTimeout:    30 * time.Second,
			MaxConcurrent:   4,
			SectorFirstYear: 2023,
			SectorMonths:    36,
		},
		Projection: ProjectionConfig{
			TableSalary:         1679.60,
			FinishingSalary:     1679.60,
			MachineSalary:       2479.86,
			MonthlyBaseHours:    144,
			OvertimePremium:     1.5,
			MealVoucherPerDay:   21,
			FreelancerDailyRate: 90,
			FGTSRate:            0.08,
			FreelancerYield:     0.95,
			DailyHours:          9,
			SaturdayHours:       8,
			DefaultFinishing:    5,
			DefaultMachine:      9,
			Months:              3,
			HistoryWindow:       3,
		},
		Dashboard: DashboardConfig{
			BaseYear:      2024,
			CurrentYear:   2025,
			CutoffMonth:   7,
			TopK:          5,
			HistogramBins: 30,
		},
	}
}
