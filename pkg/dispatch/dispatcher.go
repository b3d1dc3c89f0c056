// Package dispatch turns inbound chat messages into the list of replies the
// bot sends back.
package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xhad/formbot/internal/models"
	"github.com/xhad/formbot/internal/types"
	"github.com/xhad/formbot/pkg/extractor"
	"github.com/xhad/formbot/pkg/selector"
)

const (
	InstructionMessage = "Please answer these questions:"
	UsageMessage       = "Please send a valid Word document or Google Form link."
)

type DispatcherConfig struct {
	FormMarker string
	Extension  string
	SavePath   string
	// KeyQuestions bounds the questions sent back. Zero means
	// selector.DefaultBound; a negative value sends none.
	KeyQuestions int
}

type Dispatcher struct {
	config    DispatcherConfig
	fetcher   types.Fetcher
	extractor types.Extractor
}

func NewWithConfig(fetcher types.Fetcher, ex types.Extractor, config DispatcherConfig) *Dispatcher {
	if config.FormMarker == "" {
		config.FormMarker = "docs.google.com/forms"
	}
	if config.Extension == "" {
		config.Extension = ".docx"
	}
	if config.SavePath == "" {
		config.SavePath = "received_questionnaire.docx"
	}
	if config.KeyQuestions == 0 {
		config.KeyQuestions = selector.DefaultBound
	} else if config.KeyQuestions < 0 {
		config.KeyQuestions = 0
	}

	return &Dispatcher{
		config:    config,
		fetcher:   fetcher,
		extractor: ex,
	}
}

func New(fetcher types.Fetcher, ex types.Extractor) *Dispatcher {
	return NewWithConfig(fetcher, ex, DispatcherConfig{})
}

// Handle classifies event and returns the reply messages in send order.
// Fetch and parse failures are returned to the caller.
func (d *Dispatcher) Handle(ctx context.Context, event Event) ([]string, error) {
	var (
		doc models.SourceDocument
		err error
	)

	switch in := Classify(event, d.config).(type) {
	case FormLink:
		zap.L().Info("received form link", zap.String("url", in.URL))
		doc, err = d.loadForm(ctx, in.URL)
	case Attachment:
		zap.L().Info("received document", zap.String("url", in.URL))
		doc, err = d.loadDocument(ctx, in.URL)
	case Invalid:
		return []string{UsageMessage}, nil
	default:
		panic(fmt.Sprintf("dispatch: unhandled input %T", in))
	}
	if err != nil {
		return nil, err
	}

	questions := d.extractor.Extract(doc)
	keyQuestions := selector.Select(questions, d.config.KeyQuestions)

	zap.L().Info("extracted questions",
		zap.Int("total", len(questions)),
		zap.Int("key", len(keyQuestions)))

	replies := make([]string, 0, len(keyQuestions)+1)
	replies = append(replies, InstructionMessage)
	return append(replies, keyQuestions...), nil
}

func (d *Dispatcher) loadForm(ctx context.Context, url string) (models.SourceDocument, error) {
	html, err := d.fetcher.FetchHTML(ctx, url)
	if err != nil {
		return models.SourceDocument{}, eris.Wrap(err, "dispatch: fetch form")
	}
	doc := models.NewFormPage(html)
	doc.Source = url
	return doc, nil
}

// loadDocument saves the attachment to the configured path, replacing any
// previous upload, and parses it from there.
func (d *Dispatcher) loadDocument(ctx context.Context, url string) (models.SourceDocument, error) {
	data, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return models.SourceDocument{}, eris.Wrap(err, "dispatch: fetch document")
	}

	if dir := filepath.Dir(d.config.SavePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return models.SourceDocument{}, eris.Wrap(err, "dispatch: create document directory")
		}
	}
	if err := os.WriteFile(d.config.SavePath, data, 0o644); err != nil {
		return models.SourceDocument{}, eris.Wrap(err, "dispatch: save document")
	}

	doc, err := extractor.ParseDocxFile(d.config.SavePath)
	if err != nil {
		return models.SourceDocument{}, eris.Wrap(err, "dispatch: parse document")
	}
	return doc, nil
}
