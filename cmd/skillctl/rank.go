package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
	"github.com/fairyhunter13/ai-skill-screener/internal/usecase"
)

type rankedSkill struct {
	Skill    string      `json:"skill"`
	Score    float64     `json:"score"`
	Priority skills.Tier `json:"priority"`
}

type rankOutput struct {
	File       string           `json:"file"`
	ID         string           `json:"id"`
	TechSkills []rankedSkill    `json:"techSkills"`
	SoftSkills []rankedSkill    `json:"softSkills"`
	Breakdown  skills.Breakdown `json:"breakdown"`
}

func toRanked(list []domain.ScoredSkill, p skills.Policy) []rankedSkill {
	out := make([]rankedSkill, 0, len(list))
	for _, s := range list {
		out = append(out, rankedSkill{Skill: s.Skill, Score: s.Score, Priority: p.Tier(s.Score)})
	}
	return out
}

// descriptionText reads .txt descriptions exactly as the HTTP API does and
// extracts text from other document formats.
func descriptionText(ctx context.Context, x domain.TextExtractor, path string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return usecase.DescriptionText(data), nil
	}
	doc, err := x.Extract(ctx, filepath.Base(path), data)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

func newRankCmd(root *rootOptions) *cobra.Command {
	var (
		threshold float64
		topN      int
		asCSV     bool
	)
	cmd := &cobra.Command{
		Use:   "rank FILE...",
		Short: "Rank the vocabulary skills mentioned in job description files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asCSV && len(args) > 1 {
				return errors.New("--csv accepts a single file")
			}
			ctx, comps, err := root.build(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer comps.Close()

			_, svc := comps.Services()
			p := svc.Policy()
			if !cmd.Flags().Changed("threshold") {
				threshold = p.Threshold
			}

			reports := make([]usecase.RankReport, len(args))
			g, gCtx := errgroup.WithContext(ctx)
			g.SetLimit(max(1, comps.Cfg.RankConcurrency))
			for i, path := range args {
				g.Go(func() error {
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					text, err := descriptionText(gCtx, comps.Extractor, path, data)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					rep, err := svc.Rank(gCtx, text, threshold, topN)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					reports[i] = rep
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if asCSV {
				return usecase.WriteRankCSV(cmd.OutOrStdout(), reports[0].Ranked, p)
			}
			out := make([]rankOutput, len(args))
			for i, rep := range reports {
				out[i] = rankOutput{
					File:       args[i],
					ID:         rep.ID,
					TechSkills: toRanked(rep.Ranked.Technical, p),
					SoftSkills: toRanked(rep.Ranked.Soft, p),
					Breakdown:  rep.Breakdown,
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Minimum relevance in [0,1] (default: policy threshold)")
	cmd.Flags().IntVarP(&topN, "top", "n", 10, "Keep at most N skills per list (0 keeps all)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write the prioritized CSV export instead of JSON")
	return cmd
}
