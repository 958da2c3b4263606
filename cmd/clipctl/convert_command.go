package main

import (
	"encoding/json"
	"fmt"
	"os"

	"recipeclip/domain"
	"recipeclip/pkg/convert"

	"github.com/spf13/cobra"
)

func newConvertCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert <recipe.json>",
		Short: "Convert a recipe JSON file into another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var recipe domain.Recipe
			if err := json.Unmarshal(raw, &recipe); err != nil {
				return fmt.Errorf("parse recipe file: %w", err)
			}

			out, err := convert.Convert(recipe, domain.OutputFormat(format))
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out.Data)
				return err
			}
			if err := os.WriteFile(output, out.Data, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", output, len(out.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, markdown, svg, pdf, png, jpeg or webp")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
