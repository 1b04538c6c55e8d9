package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

var (
	testHeader = []string{"id", "external_id", "name", "facility_1"}
	testTable  = [][]entities.Cell{
		{entities.Text("1"), entities.Text("42"), entities.Text("Maria"), entities.Text("Centro | Sud")},
		{entities.Text("2"), entities.Null(), entities.Text("Luca"), entities.Null()},
	}
)

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	err := formatJSON(&buf, testHeader, testTable)
	require.NoError(t, err)

	var parsed []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	require.Len(t, parsed, 2)
	assert.Equal(t, "42", parsed[0]["external_id"])
	assert.Equal(t, "Centro | Sud", parsed[0]["facility_1"])
	assert.Contains(t, parsed[1], "external_id")
	assert.Nil(t, parsed[1]["external_id"])
}

func TestFormatJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatJSON(&buf, testHeader, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatCSV(&buf, testHeader, testTable))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,external_id,name,facility_1", lines[0])
	assert.Equal(t, "1,42,Maria,Centro | Sud", lines[1])
	assert.Equal(t, "2,,Luca,", lines[2])
}

func TestFormatMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatMarkdown(&buf, testHeader, testTable))

	result := buf.String()
	assert.Contains(t, result, "Total: 2 rows")
	assert.Contains(t, result, "| id | external_id | name | facility_1 |")
	assert.Contains(t, result, "| 1 | 42 | Maria | Centro \\| Sud |")
	assert.Contains(t, result, "| 2 | - | Luca | - |")
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatTable(&buf, "none", testHeader, testTable))
	assert.Empty(t, buf.String())

	err := formatTable(&buf, "yaml", testHeader, testTable)
	require.Error(t, err)
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"with|pipe", "with\\|pipe"},
		{"with\nnewline", "with newline"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeMarkdown(tt.input))
		})
	}
}
