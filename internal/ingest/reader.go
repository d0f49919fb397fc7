package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Canonical column names the rest of the pipeline keys on.
const (
	ColPartNo          = "Part no"
	ColDescription     = "Description"
	ColFamily          = "Family"
	ColStockBalance    = "Stock balance"
	ColOnOrder         = "On Order"
	ColBackOrder       = "Back Order Customer"
	ColRepurchasePrice = "Repurchase Price"
	ColAmount          = "Amount"
)

// SalesColumnPrefix marks trailing sales-period columns.
const SalesColumnPrefix = "Sales"

// ErrMissingColumn marks a structural failure: a column the engine cannot
// default is absent from the upload. The whole run aborts on it.
var ErrMissingColumn = errors.New("missing required column")

// columnAliases maps known alternate spellings to canonical names. Header
// cells are trimmed before lookup, which also covers the trailing-space
// variant of the stock balance column.
var columnAliases = map[string]string{
	"Stock_balance": ColStockBalance,
	"Balance":       ColStockBalance,
	"Importe":       ColAmount,
}

var requiredColumns = []string{
	ColPartNo,
	ColStockBalance,
	ColOnOrder,
	ColBackOrder,
	ColRepurchasePrice,
}

// Row is one raw record addressed by canonical column name.
type Row map[string]string

// Dataset is the cleaned tabular form of one uploaded inventory export.
type Dataset struct {
	Columns  []string
	Rows     []Row
	Encoding string
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// SalesColumns returns the dataset's sales-period columns in header order.
func (d *Dataset) SalesColumns() []string {
	cols := make([]string, 0, 8)
	for _, c := range d.Columns {
		if strings.HasPrefix(c, SalesColumnPrefix) {
			cols = append(cols, c)
		}
	}
	return cols
}

// ReadInventory reads a semicolon-delimited inventory export. The text
// encoding is auto-detected, header names are trimmed and de-aliased, and
// the second and third columns are taken as description and family
// regardless of what the export labels them. Malformed rows are dropped;
// a missing required column aborts the whole read.
func ReadInventory(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("empty input file")
	}

	decoded, encoding := decodeToUTF8(raw)

	reader := csv.NewReader(strings.NewReader(string(decoded)))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := canonicalColumns(header)
	for _, required := range requiredColumns {
		if !contains(columns, required) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	for _, dup := range duplicateColumns(columns) {
		log.Warn().Str("column", dup).Msg("duplicate column after header normalization, keeping the first")
	}

	rows := make([]Row, 0, 256)
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				dropped++
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if len(record) < len(columns) {
			dropped++
			continue
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if _, ok := row[col]; ok {
				continue
			}
			row[col] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}

	if dropped > 0 {
		log.Warn().Int("rows", dropped).Msg("dropped malformed rows from upload")
	}

	return &Dataset{
		Columns:  columns,
		Rows:     rows,
		Encoding: encoding,
	}, nil
}

// canonicalColumns trims, de-aliases and positionally renames the header.
func canonicalColumns(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		columns[i] = name
	}
	if len(columns) > 1 {
		columns[1] = ColDescription
	}
	if len(columns) > 2 {
		columns[2] = ColFamily
	}
	return columns
}

// duplicateColumns returns the canonical names that appear more than once
// in the normalized header.
func duplicateColumns(cols []string) []string {
	seen := make(map[string]bool, len(cols))
	var dups []string
	for _, c := range cols {
		if seen[c] {
			dups = append(dups, c)
			continue
		}
		seen[c] = true
	}
	return dups
}

func contains(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
