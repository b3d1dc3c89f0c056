package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/formbot/pkg/autofill"
	"github.com/xhad/formbot/pkg/selector"
)

var (
	autofillSource  string
	autofillAnswers []string
)

var autofillCmd = &cobra.Command{
	Use:   "autofill",
	Short: "Answer the key questions and let the model fill in the rest",
	Long: "Extracts the questions from --source, pairs the key questions with the " +
		"--answer values in order and predicts answers for every remaining question.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		full, err := loadQuestions(ctx, autofillSource)
		if err != nil {
			return err
		}
		candidates := selector.Select(full, cfg.Selector.KeyQuestions)

		model, err := newAnswerModel(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize answer model: %w", err)
		}
		if c, ok := model.(io.Closer); ok {
			defer c.Close()
		}

		missing := autofill.Missing(candidates, autofillAnswers, full)
		bar := getProgressBar(len(missing), " Predicting answers")
		filler := autofill.NewWithConfig(model, autofill.FillerConfig{
			OnProgress: func(question string) {
				bar.Add(1)
			},
		})

		answers, err := filler.Fill(ctx, candidates, autofillAnswers, full)
		bar.Finish()
		if err != nil {
			return err
		}

		fmt.Println()
		seen := make(map[string]bool, len(answers))
		for _, q := range append(candidates, full...) {
			a, ok := answers[q]
			if !ok || seen[q] {
				continue
			}
			seen[q] = true
			color.New(color.FgCyan).Printf("%s\n", q)
			fmt.Printf("  %s\n", a)
		}
		return nil
	},
}

func init() {
	autofillCmd.Flags().StringVar(&autofillSource, "source", "", "questionnaire .docx path or URL")
	autofillCmd.Flags().StringArrayVar(&autofillAnswers, "answer", nil, "answer to the next key question (repeatable)")
	_ = autofillCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(autofillCmd)
}
