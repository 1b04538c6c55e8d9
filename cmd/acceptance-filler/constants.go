package main

import "github.com/francesco-c/acceptance-filler/internal/infrastructure/config"

const defaultConfigName = config.DefaultConfigFile

// Valid values of the enumerated flags.
var (
	validPrintFormats = []string{"markdown", "csv", "json", "none"}
	validInputFormats = []string{"auto", "csv", "xlsx", "json"}
	validModes        = []string{"batch", "incremental"}
	validLogFormats   = []string{"text", "json"}
)
