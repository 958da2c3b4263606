package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "clipctl",
		Short:         "Extract structured recipes from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newClipCommand())
	root.AddCommand(newConvertCommand())
	root.AddCommand(newServeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
