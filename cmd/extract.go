package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/formbot/pkg/selector"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.docx|url>",
	Short: "Print the questions found in a questionnaire",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner := getSpinner(" Reading questionnaire...")
		questions, err := loadQuestions(cmd.Context(), args[0])
		spinner.Finish()
		if err != nil {
			return err
		}

		key := selector.Select(questions, cfg.Selector.KeyQuestions)

		fmt.Println()
		color.Cyan("Found %d questions (%d key):", len(questions), len(key))
		for i, q := range questions {
			if i < len(key) {
				color.Green("  %2d. %s", i+1, q)
			} else {
				fmt.Printf("  %2d. %s\n", i+1, q)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
