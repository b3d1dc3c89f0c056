package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	config := DispatcherConfig{FormMarker: "docs.google.com/forms", Extension: ".docx"}

	tests := []struct {
		name  string
		event Event
		want  Input
	}{
		{
			name:  "form link",
			event: Event{Body: "please fill https://docs.google.com/forms/d/e/AbC/viewform thanks"},
			want:  FormLink{URL: "https://docs.google.com/forms/d/e/AbC/viewform"},
		},
		{
			name:  "form link marker in upper case",
			event: Event{Body: "HTTPS://DOCS.GOOGLE.COM/FORMS/d/XyZ"},
			want:  FormLink{URL: "HTTPS://DOCS.GOOGLE.COM/FORMS/d/XyZ"},
		},
		{
			name:  "capitalised scheme from phone keyboard",
			event: Event{Body: "Https://docs.google.com/forms/d/e/1FAIpQ/viewform"},
			want:  FormLink{URL: "Https://docs.google.com/forms/d/e/1FAIpQ/viewform"},
		},
		{
			name:  "trailing sentence punctuation trimmed",
			event: Event{Body: "fill this: https://docs.google.com/forms/d/1/viewform."},
			want:  FormLink{URL: "https://docs.google.com/forms/d/1/viewform"},
		},
		{
			name:  "link in parentheses",
			event: Event{Body: "the form (https://docs.google.com/forms/d/1)!"},
			want:  FormLink{URL: "https://docs.google.com/forms/d/1"},
		},
		{
			name:  "schemeless link with trailing comma",
			event: Event{Body: "docs.google.com/forms/d/2, thanks"},
			want:  FormLink{URL: "https://docs.google.com/forms/d/2"},
		},
		{
			name:  "form link without scheme",
			event: Event{Body: "docs.google.com/forms/d/XyZ/viewform"},
			want:  FormLink{URL: "https://docs.google.com/forms/d/XyZ/viewform"},
		},
		{
			name:  "first url without marker skipped",
			event: Event{Body: "see https://example.com and https://docs.google.com/forms/d/1"},
			want:  FormLink{URL: "https://docs.google.com/forms/d/1"},
		},
		{
			name: "form link wins over attachment",
			event: Event{
				Body:     "https://docs.google.com/forms/d/1",
				MediaURL: "https://media.example.com/q.docx",
			},
			want: FormLink{URL: "https://docs.google.com/forms/d/1"},
		},
		{
			name:  "docx attachment",
			event: Event{MediaURL: "https://media.example.com/files/q.DOCX?sig=1"},
			want:  Attachment{URL: "https://media.example.com/files/q.DOCX?sig=1"},
		},
		{
			name: "attachment identified by content type",
			event: Event{
				MediaURL:         "https://api.twilio.com/2010-04-01/Accounts/AC1/Messages/MM1/Media/ME1",
				MediaContentType: WordMIMEType,
			},
			want: Attachment{URL: "https://api.twilio.com/2010-04-01/Accounts/AC1/Messages/MM1/Media/ME1"},
		},
		{
			name:  "pdf attachment",
			event: Event{MediaURL: "https://media.example.com/q.pdf", MediaContentType: "application/pdf"},
			want:  Invalid{},
		},
		{
			name:  "plain text",
			event: Event{Body: "hello"},
			want:  Invalid{},
		},
		{
			name:  "empty",
			event: Event{},
			want:  Invalid{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.event, config))
		})
	}
}

func TestWithScheme(t *testing.T) {
	assert.Equal(t, "https://docs.google.com/forms/d/1", withScheme("docs.google.com/forms/d/1"))
	assert.Equal(t, "HTTP://docs.google.com/forms/d/1", withScheme("HTTP://docs.google.com/forms/d/1"))
	assert.Equal(t, "Https://docs.google.com/forms/d/1", withScheme("Https://docs.google.com/forms/d/1"))
}
