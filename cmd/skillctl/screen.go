package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type screenOutput struct {
	ID                string   `json:"id"`
	JobRole           string   `json:"jobRole"`
	MatchScore        float64  `json:"matchScore"`
	TechSkillsFound   []string `json:"techSkillsFound"`
	SoftSkillsFound   []string `json:"softSkillsFound"`
	MissingTechSkills []string `json:"missingTechSkills"`
	MissingSoftSkills []string `json:"missingSoftSkills"`
	Recommendation    string   `json:"recommendation"`
	Pages             int      `json:"pages"`
	PagesFailed       int      `json:"pagesFailed"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func newScreenCmd(root *rootOptions) *cobra.Command {
	var file, role string
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Score a resume (.txt, .pdf, .docx) against a job role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read resume: %w", err)
			}
			ctx, comps, err := root.build(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer comps.Close()

			screen, _ := comps.Services()
			rep, err := screen.ScreenUpload(ctx, filepath.Base(file), data, role)
			if err != nil {
				return err
			}
			res := rep.Result
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(screenOutput{
				ID:                rep.ID,
				JobRole:           role,
				MatchScore:        res.MatchScore,
				TechSkillsFound:   orEmpty(res.TechFound),
				SoftSkillsFound:   orEmpty(res.SoftFound),
				MissingTechSkills: orEmpty(res.MissingTech),
				MissingSoftSkills: orEmpty(res.MissingSoft),
				Recommendation:    res.Recommendation,
				Pages:             rep.Pages,
				PagesFailed:       rep.PagesFailed,
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the resume file")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Job role to screen against")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
