package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// SourceConfig selects where workbooks are read from.
// BucketURL takes precedence over Dir when both are set.
type SourceConfig struct {
	Profile   string `yaml:"profile" envconfig:"PROFILE" validate:"oneof=local colab"`
	Dir       string `yaml:"dir" envconfig:"DIR" validate:"required_without=BucketURL"`
	BucketURL string `yaml:"bucket_url" envconfig:"BUCKET_URL" validate:"omitempty,url"`
	Prefix    string `yaml:"prefix" envconfig:"PREFIX"`
	Extension string `yaml:"extension" envconfig:"EXTENSION" validate:"required,startswith=."`
	// MaxFiles caps the number of files taken after sorting; 0 disables the cap
	MaxFiles int `yaml:"max_files" envconfig:"MAX_FILES" validate:"gte=0"`
}

// CleaningConfig contains the per-file transformation settings
type CleaningConfig struct {
	TimestampColumn string   `yaml:"timestamp_column" envconfig:"TIMESTAMP_COLUMN" validate:"required"`
	DateColumn      string   `yaml:"date_column" envconfig:"DATE_COLUMN" validate:"required"`
	DateLayout      string   `yaml:"date_layout" envconfig:"DATE_LAYOUT" validate:"required"`
	DropColumns     []string `yaml:"drop_columns" envconfig:"DROP_COLUMNS"`
	Sentinel        float64  `yaml:"sentinel" envconfig:"SENTINEL"`
}

// ReportConfig controls the console report
type ReportConfig struct {
	PreviewRows int  `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" validate:"gte=0"`
	Summary     bool `yaml:"summary" envconfig:"SUMMARY"`
}

// ExportConfig lists optional output files. Empty paths disable the export.
// ParquetSchema names the root group of the Parquet schema.
type ExportConfig struct {
	CSVPath       string `yaml:"csv_path" envconfig:"CSV_PATH"`
	ParquetPath   string `yaml:"parquet_path" envconfig:"PARQUET_PATH"`
	SQLitePath    string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	SQLiteTable   string `yaml:"sqlite_table" envconfig:"SQLITE_TABLE" validate:"required"`
	ParquetSchema string `yaml:"parquet_schema" envconfig:"PARQUET_SCHEMA"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	TraceExporter   string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter  string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
	Environment     string `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// Load builds the configuration from defaults, then the YAML file, then HIVE_* environment variables.
// An empty path searches the usual locations; a missing file there is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are set override; unset ones leave file values in place
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Resolve fills values derived from other settings
func (c *Config) Resolve() {
	c.Source.Profile = strings.ToLower(strings.TrimSpace(c.Source.Profile))
	if c.Source.Profile == "" {
		c.Source.Profile = ProfileLocal
	}
	if c.Source.Dir == "" {
		c.Source.Dir = ProfileDirs[c.Source.Profile]
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// UsesBucket reports whether workbooks come from a blob bucket instead of a directory
func (c *Config) UsesBucket() bool {
	return c.Source.BucketURL != ""
}

// SourceLocation returns the directory or bucket URL the pipeline reads from
func (c *Config) SourceLocation() string {
	if c.UsesBucket() {
		return c.Source.BucketURL
	}
	return c.Source.Dir
}

// findConfigFile returns the first existing config file location
func findConfigFile() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	drop := make([]string, len(DefaultDropColumns))
	copy(drop, DefaultDropColumns)

	return &Config{
		Source: SourceConfig{
			Profile:   ProfileLocal,
			Extension: DefaultExtension,
			MaxFiles:  DefaultMaxFiles,
		},
		Cleaning: CleaningConfig{
			TimestampColumn: DefaultTimestampColumn,
			DateColumn:      DefaultDateColumn,
			DateLayout:      DefaultDateLayout,
			DropColumns:     drop,
			Sentinel:        DefaultSentinel,
		},
		Report: ReportConfig{
			PreviewRows: DefaultPreviewRows,
			Summary:     true,
		},
		Export: ExportConfig{
			SQLiteTable:   DefaultSQLiteTable,
			ParquetSchema: DefaultParquetSchema,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			Environment:    "development",
		},
	}
}
