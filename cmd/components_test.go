package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/formbot/internal/testutil"
	"github.com/xhad/formbot/pkg/config"
)

func useConfig(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fetcher:\n  rate_limit: 100\n"), 0644))

	c, err := config.LoadConfig(path)
	require.NoError(t, err)

	old := cfg
	cfg = c
	t.Cleanup(func() { cfg = old })
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://docs.google.com/forms/d/1"))
	assert.True(t, isURL("http://example.com/q.docx"))
	assert.False(t, isURL("questionnaire.docx"))
	assert.False(t, isURL("/tmp/q.docx"))
	assert.False(t, isURL("ftp://example.com/q.docx"))
}

func TestLoadQuestionsLocalFile(t *testing.T) {
	useConfig(t)

	path := filepath.Join(t.TempDir(), "q.docx")
	require.NoError(t, os.WriteFile(path, testutil.BuildDocx(t, []string{"Name?", " ", "Email?"}), 0644))

	questions, err := loadQuestions(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name?", "Email?"}, questions)
}

func TestLoadQuestionsRemote(t *testing.T) {
	useConfig(t)
	cfg.Documents.FormMarker = "/forms/"

	docx := testutil.BuildDocx(t, []string{"Q1?", "Q2?"})
	mux := http.NewServeMux()
	mux.HandleFunc("/forms/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="M7eMe">Age?</div>`))
	})
	mux.HandleFunc("/files/q.docx", func(w http.ResponseWriter, r *http.Request) {
		w.Write(docx)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	questions, err := loadQuestions(context.Background(), ts.URL+"/forms/1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Age?"}, questions)

	questions, err = loadQuestions(context.Background(), ts.URL+"/files/q.docx")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?", "Q2?"}, questions)
}

func TestLoadQuestionsMissingFile(t *testing.T) {
	useConfig(t)

	_, err := loadQuestions(context.Background(), filepath.Join(t.TempDir(), "nope.docx"))
	assert.Error(t, err)
}
