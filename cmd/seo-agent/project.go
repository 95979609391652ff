// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/store"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create and inspect content projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project for a primary keyword",
	Long: `Create stores a new project. With --run the outline pipeline runs
immediately and the resulting outline is printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		keyword, _ := cmd.Flags().GetString("keyword")
		baseURL, _ := cmd.Flags().GetString("base-url")
		genre, _ := cmd.Flags().GetString("genre")
		location, _ := cmd.Flags().GetString("location")
		manual, _ := cmd.Flags().GetStringSlice("manual-keywords")
		run, _ := cmd.Flags().GetBool("run")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.store.CreateProject(cmd.Context(), types.Project{
			Name:           name,
			Keyword:        keyword,
			BaseURL:        baseURL,
			Genre:          genre,
			Location:       location,
			ManualKeywords: manual,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "created project %d (%s)\n", p.ID, p.Keyword)
		if !run {
			return printYAML(cmd, p)
		}
		return generateOutline(cmd, a, p.ID)
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show PROJECT_ID",
	Short: "Show a project and the status of its article",
	Args:  cobra.ExactArgs(1),
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

		p, err := a.store.GetProject(cmd.Context(), id)
		if err != nil {
			return err
		}
		view := struct {
			Project types.Project `yaml:"project"`
			Article *articleRef   `yaml:"article,omitempty"`
		}{Project: p}
		art, err := a.store.ArticleForProject(cmd.Context(), id)
		switch {
		case err == nil:
			view.Article = &articleRef{ID: art.ID, Title: art.Title, Status: art.Status}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
		return printYAML(cmd, view)
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		projects, err := a.store.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range projects {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", p.ID, p.Status, p.Keyword, p.Name)
		}
		return nil
	},
}

type articleRef struct {
	ID     int64               `yaml:"id"`
	Title  string              `yaml:"title"`
	Status types.ArticleStatus `yaml:"status"`
}

func init() {
	projectCreateCmd.Flags().String("name", "", "project name")
	projectCreateCmd.Flags().String("keyword", "", "primary keyword")
	projectCreateCmd.Flags().String("base-url", "", "site the content is written for")
	projectCreateCmd.Flags().String("genre", "", "content genre")
	projectCreateCmd.Flags().String("location", types.DefaultLocation, "search location")
	projectCreateCmd.Flags().StringSlice("manual-keywords", nil, "extra keywords to cover (comma-separated)")
	projectCreateCmd.Flags().Bool("run", false, "generate the outline right away")
	_ = projectCreateCmd.MarkFlagRequired("name")
	_ = projectCreateCmd.MarkFlagRequired("keyword")
	_ = projectCreateCmd.MarkFlagRequired("base-url")

	projectCmd.AddCommand(projectCreateCmd, projectShowCmd, projectListCmd)
	rootCmd.AddCommand(projectCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
