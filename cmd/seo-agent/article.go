// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fynix-gaurav/seo-ai-agent/internal/writing"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Write and inspect full articles",
}

var articleGenerateCmd = &cobra.Command{
	Use:   "generate ARTICLE_ID",
	Short: "Write the full article from its outline",
	Long: `Generate writes every outline section in order. Each section is
reviewed by the editor model and rewritten with its feedback up to two times
before the last candidate is accepted. The assembled Markdown replaces the
article content and the article becomes DRAFT_COMPLETE.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		htmlOut, _ := cmd.Flags().GetString("html")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.runner(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "writing article %d\n", id)
		d, err := r.RunArticleGeneration(cmd.Context(), id)
		if err != nil {
			return err
		}
		for i, s := range d.Sections {
			mark := "approved"
			if s.Forced() {
				mark = "accepted after revision limit"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "  %d. %s (%d attempts, %s)\n", i+1, s.Heading, s.Attempts, mark)
		}

		md := writing.Assemble(d)
		if htmlOut != "" {
			if err := writeHTML(htmlOut, md); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", htmlOut)
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

var articleShowCmd = &cobra.Command{
	Use:   "show ARTICLE_ID",
	Short: "Print an article's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		review, _ := cmd.Flags().GetBool("review")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		art, err := a.store.GetArticle(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s [%s]\n", art.Title, art.Status)
		if !review {
			fmt.Fprintln(cmd.OutOrStdout(), art.Content)
			return nil
		}
		if art.Review == "" {
			return fmt.Errorf("article %d has no review record", id)
		}
		var d types.Draft
		if err := json.Unmarshal([]byte(art.Review), &d); err != nil {
			return fmt.Errorf("decoding review record: %w", err)
		}
		return printYAML(cmd, d)
	},
}

func writeHTML(path, markdown string) error {
	body, err := writing.RenderHTML(markdown)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(body), 0o644)
}

func init() {
	articleGenerateCmd.Flags().String("html", "", "also render the article to this HTML file")
	articleShowCmd.Flags().Bool("review", false, "show the per-section review record instead of the content")

	articleCmd.AddCommand(articleGenerateCmd, articleShowCmd)
	rootCmd.AddCommand(articleCmd)
}
