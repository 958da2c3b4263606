package main

import (
	"encoding/json"
	"fmt"
	"time"

	"recipeclip/domain"
	"recipeclip/internal/utils"
	"recipeclip/pkg/authz"
	"recipeclip/pkg/clip"
	"recipeclip/pkg/convert"
	"recipeclip/pkg/parser"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newClipCommand() *cobra.Command {
	var (
		timeout     int
		llmFallback bool
		forceLLM    bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "clip <url>",
		Short: "Extract a recipe from a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := utils.LoadSettings()
			llm := parser.NewLLMClient(settings.AnthropicAPIKey)
			extractor := clip.NewExtractor(clip.NewFetcher(), parser.NewScraper(), llm, nil)

			result, err := extractor.Extract(cmd.Context(), args[0], clip.ExtractOptions{
				Timeout:        time.Duration(timeout) * time.Second,
				UseLLMFallback: llmFallback,
				ForceLLM:       forceLLM,
				Tier:           authz.TierInfo{Tier: authz.TierPro},
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Extracted with %s\n", result.Method)
			return printRecipe(cmd, result.Recipe, format)
		},
	}

	cmd.Flags().IntVar(&timeout, "timeout", 10, "fetch timeout in seconds")
	cmd.Flags().BoolVar(&llmFallback, "llm-fallback", false, "fall back to the LLM when the page has no structured recipe")
	cmd.Flags().BoolVar(&forceLLM, "force-llm", false, "skip the scraper and extract with the LLM")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, text, markdown or json")
	return cmd
}

func printRecipe(cmd *cobra.Command, recipe domain.Recipe, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "table":
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.SetOutputMirror(out)
		tw.SetTitle(recipe.Title)
		tw.AppendHeader(table.Row{"#", "Ingredient"})
		for i, ing := range recipe.Ingredients {
			tw.AppendRow(table.Row{i + 1, convert.IngredientLine(ing)})
		}
		tw.Render()

		steps := table.NewWriter()
		steps.SetStyle(table.StyleRounded)
		steps.SetOutputMirror(out)
		steps.AppendHeader(table.Row{"Step", "Instruction"})
		for i, step := range recipe.Instructions {
			steps.AppendRow(table.Row{i + 1, step})
		}
		steps.Render()
		return nil
	case "text":
		_, err := fmt.Fprint(out, convert.FormatText(recipe))
		return err
	case "markdown":
		_, err := fmt.Fprint(out, convert.FormatMarkdown(recipe))
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recipe)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
