package google

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNoHeader = errors.New("sheet has no header row")

// rowsFromValues converts a values matrix (as returned by the Sheets API)
// into header-keyed rows. The API drops trailing empty cells, so short rows
// are padded with "". Fully blank rows are skipped.
func rowsFromValues(values [][]interface{}) ([]map[string]string, error) {
	if len(values) == 0 {
		return nil, errNoHeader
	}
	headers := toStrings(values[0])
	for len(headers) > 0 && strings.TrimSpace(headers[len(headers)-1]) == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, errNoHeader
	}

	rows := make([]map[string]string, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		cells := toStrings(values[i])
		if isBlank(cells) {
			continue
		}
		if len(cells) > len(headers) && !isBlank(cells[len(headers):]) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(cells), len(headers))
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			row[h] = safeGet(cells, j)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
