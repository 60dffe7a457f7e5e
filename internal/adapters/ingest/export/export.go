package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"impactlog/internal/core/source"
	"impactlog/internal/core/textnorm"
)

// MissingColumnsError reports required headers absent from an export
type MissingColumnsError struct {
	App     source.App
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("export: %s missing required columns: %s", e.App, strings.Join(e.Columns, ", "))
}

// ErrEmpty is returned for an export without a header row
var ErrEmpty = errors.New("export: empty file")

// Stats describes one parsed export
type Stats struct {
	Records   int // data records seen, including malformed ones
	Malformed int // records the CSV reader rejected
}

// column binds one header to a setter on the row type
type column[T any] struct {
	name     string
	aliases  []string
	required bool
	set      func(*T, string)
}

// Columns lists the header names of an export, required first
type Columns struct {
	Required []string `json:"required"`
	Optional []string `json:"optional"`
}

func describe[T any](cols []column[T]) Columns {
	var c Columns
	for _, col := range cols {
		if col.required {
			c.Required = append(c.Required, col.name)
		} else {
			c.Optional = append(c.Optional, col.name)
		}
	}
	return c
}

// Schema returns the expected columns for app
func Schema(app source.App) (Columns, bool) {
	switch app {
	case source.Asana:
		return describe(asanaCols), true
	case source.Jira:
		return describe(jiraCols), true
	case source.Zapier:
		return describe(zapierCols), true
	case source.HubSpot:
		return describe(hubspotCols), true
	case source.Microsoft365:
		return describe(m365Cols), true
	}
	return Columns{}, false
}

// Read parses an export for app and appends its rows to b
// a *MissingColumnsError or ErrEmpty means the source is unavailable and b is untouched
func Read(app source.App, r io.Reader, b *source.Batch) (Stats, error) {
	switch app {
	case source.Asana:
		rows, st, err := parse(app, r, asanaCols, func(line int) source.AsanaRow { return source.AsanaRow{Line: line} })
		b.Asana = append(b.Asana, rows...)
		return st, err
	case source.Jira:
		rows, st, err := parse(app, r, jiraCols, func(line int) source.JiraRow { return source.JiraRow{Line: line} })
		b.Jira = append(b.Jira, rows...)
		return st, err
	case source.Zapier:
		rows, st, err := parse(app, r, zapierCols, func(line int) source.ZapierRow { return source.ZapierRow{Line: line} })
		b.Zapier = append(b.Zapier, rows...)
		return st, err
	case source.HubSpot:
		rows, st, err := parse(app, r, hubspotCols, func(line int) source.HubSpotRow { return source.HubSpotRow{Line: line} })
		b.HubSpot = append(b.HubSpot, rows...)
		return st, err
	case source.Microsoft365:
		rows, st, err := parse(app, r, m365Cols, func(line int) source.M365Row { return source.M365Row{Line: line} })
		b.M365 = append(b.M365, rows...)
		return st, err
	}
	return Stats{}, fmt.Errorf("export: unknown source %q", app)
}

func parse[T any](app source.App, r io.Reader, cols []column[T], newRow func(int) T) ([]T, Stats, error) {
	var st Stats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, st, ErrEmpty
	}
	if err != nil {
		return nil, st, fmt.Errorf("export: %s header: %w", app, err)
	}

	idx, err := bind(app, header, cols)
	if err != nil {
		return nil, st, err
	}

	var rows []T
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		st.Records++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				st.Malformed++
				continue
			}
			return nil, st, fmt.Errorf("export: %s read: %w", app, err)
		}

		row := newRow(st.Records)
		for i, col := range cols {
			if j := idx[i]; j >= 0 && j < len(rec) {
				col.set(&row, strings.TrimSpace(rec[j]))
			}
		}
		rows = append(rows, row)
	}
	return rows, st, nil
}

// bind maps each column to its header position, -1 when absent
func bind[T any](app source.App, header []string, cols []column[T]) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		k := textnorm.Fold(h)
		if _, dup := pos[k]; !dup && k != "" {
			pos[k] = i
		}
	}

	idx := make([]int, len(cols))
	var missing []string
	for i, col := range cols {
		idx[i] = -1
		for _, name := range append([]string{col.name}, col.aliases...) {
			if j, ok := pos[textnorm.Fold(name)]; ok {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 && col.required {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{App: app, Columns: missing}
	}
	return idx, nil
}
