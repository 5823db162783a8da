package skills

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// Vocabulary is the deduplicated, sorted set of known skills. Technical and
// soft skills are independent label spaces and may share entries.
type Vocabulary struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// Size returns the number of entries over both label spaces.
func (v Vocabulary) Size() int { return len(v.Technical) + len(v.Soft) }

// BuildVocabulary derives the skill vocabulary from a reference table.
// It fails with domain.ErrData when a required column is missing.
func BuildVocabulary(table domain.ReferenceTable) (Vocabulary, error) {
	if err := checkColumns(table.Columns); err != nil {
		return Vocabulary{}, err
	}
	return vocabularyFromRows(table.Rows), nil
}

func vocabularyFromRows(rows []domain.ReferenceRow) Vocabulary {
	tech := make(map[string]struct{})
	soft := make(map[string]struct{})
	for _, row := range rows {
		for _, s := range splitSkills(row.TechnicalSkills) {
			tech[s] = struct{}{}
		}
		for _, s := range splitSkills(row.SoftSkills) {
			soft[s] = struct{}{}
		}
	}
	return Vocabulary{Technical: sortedKeys(tech), Soft: sortedKeys(soft)}
}

func checkColumns(columns []string) error {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[Normalize(c)] = true
	}
	var missing []string
	for _, req := range domain.RequiredColumns {
		if !have[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", domain.ErrData, strings.Join(missing, ", "))
	}
	return nil
}
