// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the config file looked up in the working directory
	// when no --config flag is given.
	DefaultConfigFile = "acceptance-filler.yaml"
	// DefaultEnvFile is the dotenv file loaded from the working directory.
	DefaultEnvFile = ".env"
	// DefaultOutputFile is the report path used when none is given.
	DefaultOutputFile = "./xls/out.xlsx"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// Config holds the static configuration of a run.
type Config struct {
	Database DatabaseConfig `yaml:"database,omitempty"`
	Match    MatchConfig    `yaml:"match,omitempty"`
	Input    InputConfig    `yaml:"input,omitempty"`
	Report   ReportConfig   `yaml:"report,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// DatabaseConfig holds connection settings for the acceptance store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Name     string `yaml:"name,omitempty"`
	// SSLMode is passed to the postgres drivers. Empty means "disable".
	SSLMode string `yaml:"sslmode,omitempty"`
	// Path is the database file for the sqlite driver.
	Path string `yaml:"path,omitempty"`
}

// DSN returns the database/sql driver name and data source name.
// MySQL dates are left unparsed; the store scanner normalizes them.
func (d DatabaseConfig) DSN() (driverName, dsn string, err error) {
	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	switch d.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = d.Name
		return "mysql", mc.FormatDSN(), nil
	case DriverPostgres, DriverPgx:
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     addr,
			Path:     "/" + d.Name,
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		switch {
		case d.Password != "":
			u.User = url.UserPassword(d.User, d.Password)
		case d.User != "":
			u.User = url.User(d.User)
		}
		return d.Driver, u.String(), nil
	case DriverSQLite:
		if d.Path == "" {
			return "", "", errors.New("database path is required for the sqlite driver")
		}
		return "sqlite", d.Path, nil
	default:
		return "", "", fmt.Errorf("invalid database driver %q", d.Driver)
	}
}

// MatchConfig controls how persons are looked up.
type MatchConfig struct {
	Locale     string `yaml:"locale,omitempty"`
	DateWindow bool   `yaml:"date_window,omitempty"`
	WindowDays int    `yaml:"window_days,omitempty"`
	MaxPeriods int    `yaml:"max_periods,omitempty"`
}

// InputConfig maps input columns to person fields.
type InputConfig struct {
	Format  string        `yaml:"format,omitempty"`
	Columns ColumnsConfig `yaml:"columns,omitempty"`
}

// ColumnsConfig names the input column of each person field.
type ColumnsConfig struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name,omitempty"`
	Surname     string `yaml:"surname,omitempty"`
	BirthNation string `yaml:"birth_nation,omitempty"`
	BirthDate   string `yaml:"birth_date,omitempty"`
	Gender      string `yaml:"gender,omitempty"`
	FromDate    string `yaml:"from_date,omitempty"`
}

// ReportConfig controls the output artifact.
type ReportConfig struct {
	Output string `yaml:"output,omitempty"`
	Mode   string `yaml:"mode,omitempty"`
	Print  string `yaml:"print,omitempty"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: DriverMySQL,
			Host:   "localhost",
			Port:   3306,
			Name:   "printer_counter",
		},
		Match: MatchConfig{
			Locale:     "it_IT",
			WindowDays: 5,
			MaxPeriods: 5,
		},
		Input: InputConfig{
			Format: "auto",
			Columns: ColumnsConfig{
				ID:          "id",
				Name:        "nome",
				Surname:     "cognome",
				BirthNation: "nazione",
				BirthDate:   "data_nascita",
				Gender:      "genere",
				FromDate:    "ingresso",
			},
		},
		Report: ReportConfig{
			Output: DefaultOutputFile,
			Mode:   "batch",
			Print:  "markdown",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration for a run started in basePath.
//
// Values are layered: defaults, then the YAML file (configPath, or
// DefaultConfigFile in basePath if present), then the .env file in basePath
// (never overriding variables already set), then environment variables.
func Load(basePath, configPath string) (*Config, error) {
	cfg := Default()

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(basePath, DefaultConfigFile)
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config file not found: %s", configPath)
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := loadDotEnv(filepath.Join(basePath, DefaultEnvFile)); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv loads path into the process environment if it exists.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	overrides := []struct {
		key    string
		target *string
	}{
		{"MYSQL_HOST", &c.Database.Host},
		{"MYSQL_USER", &c.Database.User},
		{"MYSQL_PASSWORD", &c.Database.Password},
		{"MYSQL_DB", &c.Database.Name},
		{"ACCEPTANCE_DB_DRIVER", &c.Database.Driver},
		{"ACCEPTANCE_DB_PATH", &c.Database.Path},
		{"ACCEPTANCE_LOCALE", &c.Match.Locale},
	}
	for _, s := range overrides {
		if v, ok := os.LookupEnv(s.key); ok {
			*s.target = v
		}
	}

	if v := os.Getenv("MYSQL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", v, err)
		}
		c.Database.Port = port
	}

	return nil
}

// Validate checks the configuration for values no run can use.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverPgx:
		if c.Database.Host == "" {
			return errors.New("database host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port %d", c.Database.Port)
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid database driver %q (valid: mysql, postgres, pgx, sqlite)", c.Database.Driver)
	}

	if c.Match.MaxPeriods <= 0 {
		return fmt.Errorf("max periods must be positive, got %d", c.Match.MaxPeriods)
	}
	if c.Match.WindowDays < 0 {
		return fmt.Errorf("window days must not be negative, got %d", c.Match.WindowDays)
	}

	switch c.Report.Mode {
	case "batch", "incremental":
	default:
		return fmt.Errorf("invalid report mode %q (valid: batch, incremental)", c.Report.Mode)
	}

	cols := c.Input.Columns
	required := []struct {
		field  string
		column string
	}{
		{"id", cols.ID},
		{"name", cols.Name},
		{"surname", cols.Surname},
		{"birth_nation", cols.BirthNation},
		{"birth_date", cols.BirthDate},
		{"gender", cols.Gender},
	}
	for _, r := range required {
		if r.column == "" {
			return fmt.Errorf("input column for %s is required", r.field)
		}
	}

	return nil
}
