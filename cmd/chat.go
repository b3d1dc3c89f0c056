package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/formbot/pkg/dispatch"
	"github.com/xhad/formbot/pkg/selector"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot from the terminal",
	Long: "Send form links, .docx URLs or local .docx paths and see the replies " +
		"the bot would send on WhatsApp.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dispatcher := newDispatcher()

		color.Cyan("\nSend a Google Form link or a Word document (type 'exit' to quit)")

		scanner := bufio.NewScanner(os.Stdin)
		userPrompt := color.New(color.FgGreen).PrintfFunc()
		botPrompt := color.New(color.FgCyan).PrintfFunc()

		for {
			userPrompt("\nYou: ")
			if !scanner.Scan() {
				break
			}

			input := strings.TrimSpace(scanner.Text())
			if strings.ToLower(input) == "exit" {
				break
			}
			if input == "" {
				continue
			}

			spinner := getSpinner(" Reading questionnaire...")
			var replies []string
			var err error
			if _, statErr := os.Stat(input); statErr == nil {
				replies, err = localReplies(cmd, input)
			} else {
				event := dispatch.Event{Body: input}
				if isURL(input) {
					event.MediaURL = input
				}
				replies, err = dispatcher.Handle(ctx, event)
			}
			spinner.Finish()

			if err != nil {
				color.Red("\nError: %v\n", err)
				continue
			}

			fmt.Println()
			for _, r := range replies {
				botPrompt("Bot: %s\n", r)
			}
		}

		return scanner.Err()
	},
}

// localReplies answers a local .docx path the way the dispatcher answers an
// uploaded one.
func localReplies(cmd *cobra.Command, path string) ([]string, error) {
	questions, err := loadQuestions(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	key := selector.Select(questions, cfg.Selector.KeyQuestions)
	return append([]string{dispatch.InstructionMessage}, key...), nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
