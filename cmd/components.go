package main

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/xhad/formbot/internal/models"
	"github.com/xhad/formbot/internal/types"
	"github.com/xhad/formbot/pkg/dispatch"
	"github.com/xhad/formbot/pkg/extractor"
	"github.com/xhad/formbot/pkg/fetcher"
	"github.com/xhad/formbot/pkg/llm"
)

func newFetcher() *fetcher.Fetcher {
	return fetcher.NewWithConfig(fetcher.FetcherConfig{
		Timeout:   cfg.Fetcher.Timeout,
		RateLimit: cfg.Fetcher.RateLimit,
		UserAgent: cfg.Fetcher.UserAgent,
		AuthHosts: cfg.Fetcher.AuthHosts,
		// Twilio media URLs require the account credentials
		Auth: fetcher.BasicAuth{
			Username: cfg.Twilio.AccountSID,
			Password: cfg.Twilio.AuthToken,
		},
	})
}

func newExtractor() *extractor.Extractor {
	return extractor.NewWithConfig(extractor.ExtractorConfig{
		QuestionSelector: cfg.Extractor.QuestionSelector,
		FailureMessage:   cfg.Extractor.FailureMessage,
	})
}

func newDispatcher() *dispatch.Dispatcher {
	return dispatch.NewWithConfig(newFetcher(), newExtractor(), dispatch.DispatcherConfig{
		FormMarker:   cfg.Documents.FormMarker,
		Extension:    cfg.Documents.Extension,
		SavePath:     cfg.Documents.SavePath,
		KeyQuestions: cfg.Selector.KeyQuestions,
	})
}

func newAnswerModel(ctx context.Context) (types.AnswerModel, error) {
	return llm.NewWithConfig(ctx, llm.QAConfig{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
}

// loadQuestions extracts every question from a local .docx file, a remote
// .docx or a form URL.
func loadQuestions(ctx context.Context, source string) ([]string, error) {
	doc, err := loadDocument(ctx, source)
	if err != nil {
		return nil, err
	}
	return newExtractor().Extract(doc), nil
}

func loadDocument(ctx context.Context, source string) (models.SourceDocument, error) {
	if !isURL(source) {
		if _, err := os.Stat(source); err != nil {
			return models.SourceDocument{}, eris.Wrapf(err, "open %s", source)
		}
		return extractor.ParseDocxFile(source)
	}

	f := newFetcher()
	if strings.Contains(strings.ToLower(source), strings.ToLower(cfg.Documents.FormMarker)) {
		html, err := f.FetchHTML(ctx, source)
		if err != nil {
			return models.SourceDocument{}, err
		}
		doc := models.NewFormPage(html)
		doc.Source = source
		return doc, nil
	}

	data, err := f.Fetch(ctx, source)
	if err != nil {
		return models.SourceDocument{}, err
	}
	doc, err := extractor.ParseDocx(bytes.NewReader(data))
	if err != nil {
		return models.SourceDocument{}, err
	}
	doc.Source = source
	return doc, nil
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
