// Package csvsource reads the reference role/skills table from a CSV file
// with a header row.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// Source implements domain.ReferenceSource over a CSV file.
type Source struct {
	Path string
}

var _ domain.ReferenceSource = Source{}

// New returns a source reading path.
func New(path string) Source { return Source{Path: path} }

// Load reads the whole file. Unknown columns are kept in Columns but
// ignored; a missing required column is reported by the vocabulary builder.
func (s Source) Load(ctx domain.Context) (domain.ReferenceTable, error) {
	// #nosec G304 -- dataset path comes from operator configuration
	f, err := os.Open(s.Path)
	if err != nil {
		return domain.ReferenceTable{}, fmt.Errorf("op=csvsource.Load: %w: %w", domain.ErrData, err)
	}
	defer func() { _ = f.Close() }()
	tbl, err := Parse(ctx, f)
	if err != nil {
		return domain.ReferenceTable{}, fmt.Errorf("op=csvsource.Load: %s: %w", s.Path, err)
	}
	return tbl, nil
}

// Parse reads a reference table from r.
func Parse(ctx domain.Context, r io.Reader) (domain.ReferenceTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.ReferenceTable{}, fmt.Errorf("%w: empty dataset", domain.ErrData)
	}
	if err != nil {
		return domain.ReferenceTable{}, fmt.Errorf("%w: header: %w", domain.ErrData, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	tbl := domain.ReferenceTable{Columns: header}
	col := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	for {
		if err := ctx.Err(); err != nil {
			return domain.ReferenceTable{}, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.ReferenceTable{}, fmt.Errorf("%w: %w", domain.ErrData, err)
		}
		tbl.Rows = append(tbl.Rows, domain.ReferenceRow{
			RoleTitle:       col(rec, domain.ColumnJobTitle),
			TechnicalSkills: col(rec, domain.ColumnTechnicalSkills),
			SoftSkills:      col(rec, domain.ColumnSoftSkills),
		})
	}
	return tbl, nil
}
