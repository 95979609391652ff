// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fynix-gaurav/seo-ai-agent/internal/jobs"
	"github.com/fynix-gaurav/seo-ai-agent/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Generate and export SEO outlines",
}

var outlineGenerateCmd = &cobra.Command{
	Use:   "generate PROJECT_ID",
	Short: "Run the outline pipeline for a project",
	Long: `Generate fetches the top search results for the project's keyword,
scrapes their headings, and runs the grouper, architect, and refiner stages.
The outline is stored as the project's DRAFT article and printed as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return generateOutline(cmd, a, id)
	},
}

var outlineExportCmd = &cobra.Command{
	Use:   "export ARTICLE_ID",
	Short: "Export an article's outline as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		art, err := a.store.GetArticle(cmd.Context(), id)
		if err != nil {
			return err
		}
		o, err := jobs.OutlineOf(art)
		if err != nil {
			return err
		}
		if out == "" {
			return printYAML(cmd, o)
		}
		if err := outline.SaveYAML(out, o); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
		return nil
	},
}

func generateOutline(cmd *cobra.Command, a *app, projectID int64) error {
	r, err := a.runner(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "generating outline for project %d\n", projectID)
	o, err := r.RunProject(cmd.Context(), projectID)
	if err != nil {
		return err
	}
	return printYAML(cmd, o)
}

func init() {
	outlineExportCmd.Flags().String("out", "", "write the outline to this YAML file instead of stdout")

	outlineCmd.AddCommand(outlineGenerateCmd, outlineExportCmd)
	rootCmd.AddCommand(outlineCmd)
}
