// Package artifact reads and writes the raw jobs CSV shared by the
// extractor and the loader.
package artifact

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"jobmate/ingestion-service/internal/model"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// WriteFile writes records to path with a model.Columns header, creating the
// parent directory if needed. Any existing file is replaced.
func WriteFile(path string, records []model.JobRecord) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes records as CSV.
func Write(w io.Writer, records []model.JobRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(model.Columns))
	for _, rec := range records {
		for i, v := range rec.Values() {
			row[i] = formatCell(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write job %s: %w", rec.JobID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return x.UTC().Format(model.ExtractedAtLayout)
	default:
		return fmt.Sprint(x)
	}
}

// Row is one CSV data row addressed by column name.
type Row struct {
	index map[string]int
	cells []string
}

// Get returns the raw cell for col. ok is false when the column is not in
// the header or the row is short.
func (r Row) Get(col string) (cell string, ok bool) {
	i, found := r.index[col]
	if !found || i >= len(r.cells) {
		return "", false
	}
	return r.cells[i], true
}

// ReadFile reads every data row of the CSV at path.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes CSV rows. Columns are matched by header name, so extra or
// reordered columns are tolerated; job_id must be present.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s (empty file)", ErrMissingColumn, model.ColJobID)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	if _, ok := index[model.ColJobID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, model.ColJobID)
	}

	var rows []Row
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, Row{index: index, cells: cells})
	}
	return rows, nil
}
