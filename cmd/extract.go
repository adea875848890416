package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdoc/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE...",
	Short: "Print the text extracted from images, a PDF or a Word document",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		files, err := extract.ReadFiles(args)
		if err != nil {
			return err
		}
		ext, err := rt.extractor(ctx)
		if err != nil {
			return err
		}
		text, err := ext.Extract(ctx, files)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
