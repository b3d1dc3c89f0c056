// Package extractor turns questionnaires into ordered lists of questions.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/xhad/formbot/internal/models"
	"github.com/xhad/formbot/internal/types"
)

const (
	// DefaultQuestionSelector matches question titles in the markup Google
	// Forms currently renders. It is tied to generated class names and breaks
	// whenever the form renderer changes.
	DefaultQuestionSelector = "div.M7eMe"

	// DefaultFailureMessage is returned in place of questions when a form
	// page yields none.
	DefaultFailureMessage = "Unable to extract questions from the form."
)

var _ types.Extractor = (*Extractor)(nil)

type ExtractorConfig struct {
	QuestionSelector string
	FailureMessage   string
}

type Extractor struct {
	config ExtractorConfig
}

func NewWithConfig(config ExtractorConfig) *Extractor {
	if config.QuestionSelector == "" {
		config.QuestionSelector = DefaultQuestionSelector
	}
	if config.FailureMessage == "" {
		config.FailureMessage = DefaultFailureMessage
	}
	return &Extractor{config: config}
}

func New() *Extractor {
	return NewWithConfig(ExtractorConfig{})
}

// Extract returns the questions of doc in document order. It never returns
// an empty slice for a form page: when nothing matches, the failure message
// is returned as the only element.
func (e *Extractor) Extract(doc models.SourceDocument) []string {
	switch doc.Kind {
	case models.StructuredText:
		return e.extractParagraphs(doc.Paragraphs)
	case models.FormPage:
		return e.extractForm(doc.RawHTML)
	default:
		zap.L().Warn("unknown document kind", zap.Stringer("kind", doc.Kind))
		return []string{e.config.FailureMessage}
	}
}

func (e *Extractor) extractParagraphs(paragraphs []string) []string {
	questions := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		questions = append(questions, p)
	}
	return questions
}

func (e *Extractor) extractForm(rawHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		zap.L().Warn("failed to parse form page", zap.Error(err))
		return []string{e.config.FailureMessage}
	}

	var questions []string
	doc.Find(e.config.QuestionSelector).Each(func(_ int, s *goquery.Selection) {
		questions = append(questions, s.Text())
	})

	if len(questions) == 0 {
		zap.L().Info("no questions matched on form page",
			zap.String("selector", e.config.QuestionSelector))
		return []string{e.config.FailureMessage}
	}
	return questions
}
