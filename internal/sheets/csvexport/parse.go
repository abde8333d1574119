package csvexport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrTooFewFields  = errors.New("too few fields")
	ErrFieldMismatch = errors.New("field mismatch")
	ErrNoHeader      = errors.New("missing header row")
)

// ParseRows reads CSV with a header row and returns one header-keyed map
// per data row. Blank lines are skipped. A data row whose field count
// differs from the header is a hard error for the whole input.
func ParseRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		switch {
		case len(rec) < len(header):
			return nil, fmt.Errorf("%w: line %d has %d of %d", ErrTooFewFields, line, len(rec), len(header))
		case len(rec) > len(header):
			return nil, fmt.Errorf("%w: line %d has %d, header has %d", ErrFieldMismatch, line, len(rec), len(header))
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			row[h] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
