// Package autofill fills in answers to questions the user left unanswered,
// using a question-answering model over the questionnaire text.
package autofill

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xhad/formbot/internal/types"
)

// ModelInvocationError is returned when the answer model fails for a question.
type ModelInvocationError struct {
	Question string
	Err      error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("answer model failed for %q: %v", e.Question, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

type FillerConfig struct {
	// OnProgress, if set, is called after every model call.
	OnProgress func(question string)
}

type Filler struct {
	config FillerConfig
	model  types.AnswerModel
}

func NewWithConfig(model types.AnswerModel, config FillerConfig) *Filler {
	return &Filler{
		config: config,
		model:  model,
	}
}

func New(model types.AnswerModel) *Filler {
	return NewWithConfig(model, FillerConfig{})
}

// Fill pairs candidates with userAnswers by position and asks the model for
// every question in full that has no answer yet. Pairing stops at the shorter
// of the two slices. User answers are never overwritten.
func (f *Filler) Fill(ctx context.Context, candidates, userAnswers, full []string) (map[string]string, error) {
	answers := make(map[string]string, len(full))

	n := min(len(candidates), len(userAnswers))
	for i := 0; i < n; i++ {
		answers[candidates[i]] = userAnswers[i]
	}

	passage := strings.Join(full, " ")
	for _, question := range full {
		if _, ok := answers[question]; ok {
			continue
		}

		answer, err := f.model.Answer(ctx, question, passage)
		if err != nil {
			return nil, &ModelInvocationError{Question: question, Err: err}
		}
		answers[question] = answer

		zap.L().Debug("predicted answer",
			zap.String("question", question),
			zap.String("answer", answer))

		if f.config.OnProgress != nil {
			f.config.OnProgress(question)
		}
	}

	return answers, nil
}

// Missing returns the questions in full that Fill would send to the model.
// Duplicates are reported once.
func Missing(candidates, userAnswers, full []string) []string {
	answered := make(map[string]struct{}, len(candidates))
	n := min(len(candidates), len(userAnswers))
	for i := 0; i < n; i++ {
		answered[candidates[i]] = struct{}{}
	}

	var missing []string
	for _, question := range full {
		if _, ok := answered[question]; ok {
			continue
		}
		answered[question] = struct{}{}
		missing = append(missing, question)
	}
	return missing
}
