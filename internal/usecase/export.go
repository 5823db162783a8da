package usecase

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

// RankCSVHeader is the header row of the ranking export.
var RankCSVHeader = []string{"Skill", "Type", "Relevance Score", "Priority"}

// WriteRankCSV writes ranked skills as CSV: technical rows first, then soft,
// scores rounded to three decimals.
func WriteRankCSV(out io.Writer, ranked domain.RankedSkills, p skills.Policy) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(RankCSVHeader); err != nil {
		return err
	}
	rows := func(list []domain.ScoredSkill, kind string) error {
		for _, sk := range list {
			score := strconv.FormatFloat(math.Round(sk.Score*1000)/1000, 'f', -1, 64)
			if err := cw.Write([]string{sk.Skill, kind, score, p.Tier(sk.Score).Label()}); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rows(ranked.Technical, "Technical"); err != nil {
		return err
	}
	if err := rows(ranked.Soft, "Soft"); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
