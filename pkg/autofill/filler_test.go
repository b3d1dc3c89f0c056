package autofill_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/formbot/pkg/autofill"
)

type stubModel struct {
	answers map[string]string
	err     error
	calls   []string
	passage string
}

func (s *stubModel) Answer(ctx context.Context, question, passage string) (string, error) {
	s.calls = append(s.calls, question)
	s.passage = passage
	if s.err != nil {
		return "", s.err
	}
	return s.answers[question], nil
}

func TestFill(t *testing.T) {
	model := &stubModel{answers: map[string]string{"Q2?": "A2"}}
	filler := autofill.New(model)

	got, err := filler.Fill(context.Background(), []string{"Q1?"}, []string{"A1"}, []string{"Q1?", "Q2?"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Q1?": "A1", "Q2?": "A2"}, got)
	assert.Equal(t, []string{"Q2?"}, model.calls)
	assert.Equal(t, "Q1? Q2?", model.passage)
}

func TestFillPairing(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		answers    []string
		full       []string
		want       map[string]string
		wantCalls  []string
	}{
		{
			name:       "extra answers dropped",
			candidates: []string{"Q1?"},
			answers:    []string{"A1", "A2", "A3"},
			full:       []string{"Q1?"},
			want:       map[string]string{"Q1?": "A1"},
		},
		{
			name:       "extra candidates dropped",
			candidates: []string{"Q1?", "Q2?"},
			answers:    []string{"A1"},
			full:       []string{"Q1?", "Q2?"},
			want:       map[string]string{"Q1?": "A1", "Q2?": "model"},
			wantCalls:  []string{"Q2?"},
		},
		{
			name:       "candidate outside full list kept",
			candidates: []string{"Extra?"},
			answers:    []string{"yes"},
			full:       []string{"Q1?"},
			want:       map[string]string{"Extra?": "yes", "Q1?": "model"},
			wantCalls:  []string{"Q1?"},
		},
		{
			name:       "duplicate full questions asked once",
			candidates: nil,
			answers:    nil,
			full:       []string{"Q1?", "Q1?"},
			want:       map[string]string{"Q1?": "model"},
			wantCalls:  []string{"Q1?"},
		},
		{
			name: "everything empty",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &stubModel{answers: map[string]string{"Q1?": "model", "Q2?": "model"}}
			got, err := autofill.New(model).Fill(context.Background(), tt.candidates, tt.answers, tt.full)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, model.calls)
		})
	}
}

func TestFillIsRepeatable(t *testing.T) {
	model := &stubModel{answers: map[string]string{"Q2?": "A2", "Q3?": "A3"}}
	filler := autofill.New(model)
	full := []string{"Q1?", "Q2?", "Q3?"}

	first, err := filler.Fill(context.Background(), []string{"Q1?"}, []string{"A1"}, full)
	require.NoError(t, err)
	second, err := filler.Fill(context.Background(), []string{"Q1?"}, []string{"A1"}, full)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFillModelError(t *testing.T) {
	cause := errors.New("model unavailable")
	model := &stubModel{err: cause}

	_, err := autofill.New(model).Fill(context.Background(), nil, nil, []string{"Q1?", "Q2?"})
	require.Error(t, err)

	var invErr *autofill.ModelInvocationError
	require.ErrorAs(t, eris.Wrap(err, "autofill"), &invErr)
	assert.Equal(t, "Q1?", invErr.Question)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, model.calls, 1)
}

func TestFillProgress(t *testing.T) {
	model := &stubModel{answers: map[string]string{}}
	var seen []string
	filler := autofill.NewWithConfig(model, autofill.FillerConfig{
		OnProgress: func(q string) { seen = append(seen, q) },
	})

	_, err := filler.Fill(context.Background(), []string{"Q1?"}, []string{"A1"}, []string{"Q1?", "Q2?", "Q3?"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Q2?", "Q3?"}, seen)
}

func TestMissing(t *testing.T) {
	got := autofill.Missing([]string{"Q1?", "Q4?"}, []string{"A1"}, []string{"Q1?", "Q2?", "Q2?", "Q4?"})
	assert.Equal(t, []string{"Q2?", "Q4?"}, got)
	assert.Nil(t, autofill.Missing(nil, nil, nil))
}
