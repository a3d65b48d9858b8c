package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Import ImportConfig `yaml:"import" mapstructure:"import"`
	OCR    OCRConfig    `yaml:"ocr" mapstructure:"ocr"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig sizes the Postgres connection pool. Zero keeps the pgx default.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// ImportConfig configures a bulk import run.
type ImportConfig struct {
	Root         string `yaml:"root" mapstructure:"root"`
	MaxFiles     int    `yaml:"max_files" mapstructure:"max_files"`
	AutoApprove  bool   `yaml:"auto_approve" mapstructure:"auto_approve"`
	AdminUserID  int64  `yaml:"admin_user_id" mapstructure:"admin_user_id"`
	OutputDir    string `yaml:"output_dir" mapstructure:"output_dir"`
	OutputFormat string `yaml:"output_format" mapstructure:"output_format"`
}

// OCRConfig configures PDF text extraction.
type OCRConfig struct {
	MaxPages      int    `yaml:"max_pages" mapstructure:"max_pages"`
	MinTextLength int    `yaml:"min_text_length" mapstructure:"min_text_length"`
	DPI           int    `yaml:"dpi" mapstructure:"dpi"`
	PSM           int    `yaml:"psm" mapstructure:"psm"`
	OEM           int    `yaml:"oem" mapstructure:"oem"`
	Lang          string `yaml:"lang" mapstructure:"lang"`
	TextLayer     string `yaml:"text_layer" mapstructure:"text_layer"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	PdftoppmPath  string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PAPERCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "paperctl.db")
	v.SetDefault("store.pool.max_conns", 0)
	v.SetDefault("store.pool.min_conns", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("import.root", "./pastpaper")
	v.SetDefault("import.max_files", 0)
	v.SetDefault("import.auto_approve", false)
	v.SetDefault("import.admin_user_id", 0)
	v.SetDefault("import.output_dir", "bulk_import_results")
	v.SetDefault("import.output_format", "json")
	v.SetDefault("ocr.max_pages", 3)
	v.SetDefault("ocr.min_text_length", 100)
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.psm", 6)
	v.SetDefault("ocr.oem", 3)
	v.SetDefault("ocr.lang", "eng")
	v.SetDefault("ocr.text_layer", "native")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.pdftoppm_path", "pdftoppm")
	v.SetDefault("ocr.tesseract_path", "tesseract")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on and reports every
// problem at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	needStore := false
	switch mode {
	case "import":
		needStore = true
		if c.Import.Root == "" {
			problems = append(problems, "import.root is required")
		}
		if c.Import.MaxFiles < 0 {
			problems = append(problems, "import.max_files must be >= 0")
		}
		switch c.Import.OutputFormat {
		case "json", "yaml", "xlsx":
		default:
			problems = append(problems, "import.output_format must be one of json, yaml, xlsx")
		}
		problems = append(problems, c.OCR.problems()...)
	case "inspect":
		problems = append(problems, c.OCR.problems()...)
	case "migrate", "courses":
		needStore = true
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if needStore {
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (o OCRConfig) problems() []string {
	var p []string
	if o.MaxPages < 1 {
		p = append(p, "ocr.max_pages must be >= 1")
	}
	if o.DPI < 72 || o.DPI > 1200 {
		p = append(p, "ocr.dpi must be between 72 and 1200")
	}
	switch o.TextLayer {
	case "native", "pdftotext", "":
	default:
		p = append(p, "ocr.text_layer must be native or pdftotext")
	}
	return p
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
