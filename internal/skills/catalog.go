package skills

import (
	"sort"
	"strings"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// Catalog is the immutable reference dataset plus the vocabulary derived
// from it. Build it once at startup and share it.
type Catalog struct {
	rows  []domain.ReferenceRow
	vocab Vocabulary
}

// NewCatalog validates the table, lower-cases role titles and builds the
// vocabulary. The table is copied; later changes to it are not observed.
func NewCatalog(table domain.ReferenceTable) (*Catalog, error) {
	vocab, err := BuildVocabulary(table)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.ReferenceRow, len(table.Rows))
	for i, r := range table.Rows {
		r.RoleTitle = strings.ToLower(r.RoleTitle)
		rows[i] = r
	}
	return &Catalog{rows: rows, vocab: vocab}, nil
}

// Vocabulary returns the skill vocabulary. The slices must not be modified.
func (c *Catalog) Vocabulary() Vocabulary { return c.vocab }

// Len returns the number of reference rows.
func (c *Catalog) Len() int { return len(c.rows) }

// Resolve unions the skills of every row whose title contains the
// normalized role as a literal substring. When no row matches it returns the
// zero RoleSkills; check Found.
func (c *Catalog) Resolve(role string) domain.RoleSkills {
	role = Normalize(role)
	tech := make(map[string]struct{})
	soft := make(map[string]struct{})
	matched := 0
	for _, row := range c.rows {
		if !strings.Contains(row.RoleTitle, role) {
			continue
		}
		matched++
		for _, s := range splitSkills(row.TechnicalSkills) {
			tech[s] = struct{}{}
		}
		for _, s := range splitSkills(row.SoftSkills) {
			soft[s] = struct{}{}
		}
	}
	if matched == 0 {
		return domain.RoleSkills{}
	}
	techList := sortedKeys(tech)
	softList := sortedKeys(soft)
	words := make([]string, 0, len(techList)+len(softList))
	words = append(words, techList...)
	words = append(words, softList...)
	return domain.RoleSkills{
		Technical:     techList,
		Soft:          softList,
		ReferenceText: strings.Join(words, " "),
	}
}

// Titles returns the distinct role titles containing query, sorted. An empty
// query lists every title.
func (c *Catalog) Titles(query string) []string {
	query = Normalize(query)
	seen := make(map[string]struct{})
	for _, row := range c.rows {
		t := strings.TrimSpace(row.RoleTitle)
		if t == "" || !strings.Contains(t, query) {
			continue
		}
		seen[t] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
