package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

const sourceJSON = "json input"

// JSONParser reads rows from a JSON array of objects.
type JSONParser struct{}

// Parse reads JSON from the reader. JSON null and empty strings become nil
// values; numbers and booleans keep their literal text. Objects carry their
// own keys, so the table has no header.
func (p *JSONParser) Parse(r io.Reader) (*Table, error) {
	var objects []map[string]any

	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&objects); err != nil {
		return nil, &entities.InputFormatError{Source: sourceJSON, Message: fmt.Sprintf("parsing JSON: %v", err)}
	}

	rows := make([]RawRow, 0, len(objects))
	for i, obj := range objects {
		// Line numbers are array index + 1
		row := RawRow{LineNum: i + 1, Values: make(map[string]*string, len(obj))}
		for key, raw := range obj {
			v, err := jsonValue(raw)
			if err != nil {
				return nil, &entities.InputFormatError{Source: sourceJSON, Line: i + 1, Column: key, Message: err.Error()}
			}
			row.Values[key] = v
		}
		rows = append(rows, row)
	}

	return &Table{Rows: rows}, nil
}

func jsonValue(raw any) (*string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return cell(v), nil
	case json.Number:
		return cell(v.String()), nil
	case bool:
		return cell(strconv.FormatBool(v)), nil
	default:
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(v)
		return nil, fmt.Errorf("unsupported nested value %s", bytes.TrimSpace(buf.Bytes()))
	}
}
