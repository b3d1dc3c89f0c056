package models

// DocumentKind tags which variant a SourceDocument holds.
type DocumentKind int

const (
	StructuredText DocumentKind = iota
	FormPage
)

func (k DocumentKind) String() string {
	switch k {
	case StructuredText:
		return "structured_text"
	case FormPage:
		return "form_page"
	default:
		return "unknown"
	}
}

// SourceDocument is a questionnaire as received from the user. Only the
// field matching Kind is meaningful.
type SourceDocument struct {
	Kind DocumentKind

	// Paragraphs of a word-processing document, in document order.
	Paragraphs []string

	// RawHTML of a page believed to contain a form.
	RawHTML string

	// Source is the URL or path the document came from, when known.
	Source string
}

func NewStructuredText(paragraphs []string) SourceDocument {
	return SourceDocument{Kind: StructuredText, Paragraphs: paragraphs}
}

func NewFormPage(rawHTML string) SourceDocument {
	return SourceDocument{Kind: FormPage, RawHTML: rawHTML}
}
