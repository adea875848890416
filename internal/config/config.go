// Package config assembles quizdoc's runtime configuration from an
// optional .env file, an optional quizdoc.yaml and QUIZDOC_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/quizdoc/internal/llm"
)

// EnvPrefix is the prefix of every quizdoc environment variable.
const EnvPrefix = "QUIZDOC"

// Config is the full application configuration.
type Config struct {
	DB       string         `mapstructure:"db"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Generate GenerateConfig `mapstructure:"generate"`
	Server   ServerConfig   `mapstructure:"server"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Log      LogConfig      `mapstructure:"log"`

	// LLM comes from llm.ResolveConfig after the .env file is loaded.
	LLM llm.Config `mapstructure:"-"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// ExtractConfig bounds uploads and selects the OCR engine.
type ExtractConfig struct {
	MaxImages     int           `mapstructure:"max_images"`
	MaxPDFPages   int           `mapstructure:"max_pdf_pages"`
	OCREngine     string        `mapstructure:"ocr_engine"` // "llm" or "tesseract"
	TesseractPath string        `mapstructure:"tesseract_path"`
	TesseractLang string        `mapstructure:"tesseract_lang"`
	OCRTimeout    time.Duration `mapstructure:"ocr_timeout"`
}

// GenerateConfig controls quiz generation.
type GenerateConfig struct {
	// Endpoint, when set, sends requests to a remote quiz endpoint instead
	// of calling the LLM provider directly.
	Endpoint        string        `mapstructure:"endpoint"`
	EndpointTimeout time.Duration `mapstructure:"endpoint_timeout"`
	MaxSourceChars  int           `mapstructure:"max_source_chars"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Temperature     float64       `mapstructure:"temperature"`
	Structured      bool          `mapstructure:"structured"`
	SaveHistory     bool          `mapstructure:"save_history"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxUploadMB    int64         `mapstructure:"max_upload_mb"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ArchiveConfig selects where uploaded source files are archived.
// Backend is "", "fs" or "s3"; empty disables archiving.
type ArchiveConfig struct {
	Backend         string `mapstructure:"backend"`
	Dir             string `mapstructure:"dir"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")

	v.SetDefault("extract.max_images", 5)
	v.SetDefault("extract.max_pdf_pages", 15)
	v.SetDefault("extract.ocr_engine", "llm")
	v.SetDefault("extract.tesseract_path", "tesseract")
	v.SetDefault("extract.tesseract_lang", "eng")
	v.SetDefault("extract.ocr_timeout", "60s")

	v.SetDefault("generate.endpoint", "")
	v.SetDefault("generate.endpoint_timeout", "120s")
	v.SetDefault("generate.max_source_chars", 30000)
	v.SetDefault("generate.max_tokens", 4096)
	v.SetDefault("generate.temperature", 0.3)
	v.SetDefault("generate.structured", false)
	v.SetDefault("generate.save_history", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_mb", 25)
	v.SetDefault("server.request_timeout", "180s")

	v.SetDefault("archive.backend", "")
	v.SetDefault("archive.dir", "")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.prefix", "uploads")
	v.SetDefault("archive.region", "auto")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.access_key_id", "")
	v.SetDefault("archive.secret_access_key", "")
	v.SetDefault("archive.use_path_style", false)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
}

// Load reads the configuration. path names an explicit config file; when
// empty, quizdoc.yaml is looked up in the working directory and in the
// user config directory, and its absence is not an error.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quizdoc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "quizdoc"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.LLM = llm.ResolveConfig()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads KEY=VALUE pairs from file into the process environment
// without overriding variables that are already set. A missing file is
// fine.
func loadDotEnv(file string) error {
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", file, err)
	}
	return nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Extract.MaxImages < 1 {
		return fmt.Errorf("extract.max_images must be at least 1, got %d", c.Extract.MaxImages)
	}
	if c.Extract.MaxPDFPages < 1 {
		return fmt.Errorf("extract.max_pdf_pages must be at least 1, got %d", c.Extract.MaxPDFPages)
	}
	switch c.Extract.OCREngine {
	case "llm", "tesseract":
	default:
		return fmt.Errorf("unknown OCR engine %q (want llm or tesseract)", c.Extract.OCREngine)
	}
	if c.Generate.MaxSourceChars < 0 {
		return fmt.Errorf("generate.max_source_chars must not be negative")
	}
	switch c.Archive.Backend {
	case "":
	case "fs":
		if c.Archive.Dir == "" {
			return fmt.Errorf("archive.dir is required for the fs archive backend")
		}
	case "s3":
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket is required for the s3 archive backend")
		}
	default:
		return fmt.Errorf("unknown archive backend %q", c.Archive.Backend)
	}
	return nil
}
