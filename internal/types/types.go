package types

import (
	"context"

	"github.com/xhad/formbot/internal/models"
)

// Core interfaces
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	FetchHTML(ctx context.Context, url string) (string, error)
}

type Extractor interface {
	Extract(doc models.SourceDocument) []string
}

// AnswerModel is a question-answering model: given a question and a context
// passage it returns its best-guess answer.
type AnswerModel interface {
	Answer(ctx context.Context, question, passage string) (string, error)
}
