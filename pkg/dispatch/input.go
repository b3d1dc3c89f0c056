package dispatch

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// WordMIMEType is the content type chat platforms report for .docx uploads.
const WordMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Event is an inbound chat message, independent of the transport it came from.
type Event struct {
	Body             string
	MediaURL         string
	MediaContentType string
}

// Input is the classified form of an Event. It is one of FormLink,
// Attachment or Invalid.
type Input interface {
	isInput()
}

// FormLink is a message whose body links to an online form.
type FormLink struct {
	URL string
}

// Attachment is a message carrying a Word document.
type Attachment struct {
	URL string
}

// Invalid is any message the bot cannot work with.
type Invalid struct{}

func (FormLink) isInput()   {}
func (Attachment) isInput() {}
func (Invalid) isInput()    {}

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s]+`)

// trailingPunctuation is trimmed from links typed at the end of a sentence.
const trailingPunctuation = ".,;:!?)"

// Classify parses event into an Input. A form link in the body wins over an
// attachment.
func Classify(event Event, config DispatcherConfig) Input {
	marker := strings.ToLower(config.FormMarker)

	if marker != "" && strings.Contains(strings.ToLower(event.Body), marker) {
		return FormLink{URL: formURL(event.Body, marker)}
	}

	if event.MediaURL != "" && isDocument(event, config.Extension) {
		return Attachment{URL: event.MediaURL}
	}

	return Invalid{}
}

func formURL(body, marker string) string {
	for _, candidate := range urlPattern.FindAllString(body, -1) {
		if strings.Contains(strings.ToLower(candidate), marker) {
			return strings.TrimRight(candidate, trailingPunctuation)
		}
	}

	for _, field := range strings.Fields(body) {
		if strings.Contains(strings.ToLower(field), marker) {
			return withScheme(strings.TrimRight(field, trailingPunctuation))
		}
	}

	// only reachable when the marker itself contains whitespace
	return withScheme(strings.TrimSpace(body))
}

func withScheme(s string) string {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return s
	}
	return "https://" + s
}

func isDocument(event Event, extension string) bool {
	if strings.EqualFold(strings.TrimSpace(strings.Split(event.MediaContentType, ";")[0]), WordMIMEType) {
		return true
	}
	if extension == "" {
		return false
	}

	p := event.MediaURL
	if u, err := url.Parse(event.MediaURL); err == nil {
		p = u.Path
	}
	return strings.EqualFold(path.Ext(p), extension)
}
