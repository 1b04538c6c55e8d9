package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# acceptance-filler configuration

database:
  driver: mysql          # mysql, postgres, pgx, sqlite
  host: localhost        # or set MYSQL_HOST
  port: 3306             # or set MYSQL_PORT
  name: printer_counter  # or set MYSQL_DB
  # user: ...            (or set MYSQL_USER)
  # password: ...        (or set MYSQL_PASSWORD)
  # path: ./acceptance.db (sqlite driver only)

match:
  locale: it_IT
  date_window: false
  window_days: 5
  max_periods: 5

input:
  format: auto           # auto, csv, xlsx, json
  columns:
    id: id
    name: nome
    surname: cognome
    birth_nation: nazione
    birth_date: data_nascita
    gender: genere
    from_date: ingresso

report:
  output: ./xls/out.xlsx
  mode: batch            # batch, incremental
  print: markdown        # markdown, csv, json, none

log:
  level: info
  format: text
`

// WriteDefault writes the default config file to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to path.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
