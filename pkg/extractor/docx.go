package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/xhad/formbot/internal/models"
)

const (
	contentTypesPart = "[Content_Types].xml"
	mainDocumentPart = "word/document.xml"

	// maxPartBytes caps the decompressed size of document.xml.
	maxPartBytes = 64 << 20
)

// DocumentError reports a document that could not be read as a Word file.
type DocumentError struct {
	Source string
	Err    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("parse document %s: %v", e.Source, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// ParseDocx reads a .docx stream into a StructuredText document with one
// entry per body paragraph, in document order. Blank paragraphs are kept;
// Extract drops them. Headers, footers, tables and text boxes are not
// body paragraphs and are skipped.
func ParseDocx(r io.Reader) (models.SourceDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.SourceDocument{}, &DocumentError{Source: "stream", Err: eris.Wrap(err, "extractor: read docx")}
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.SourceDocument{}, &DocumentError{Source: "stream", Err: eris.Wrap(err, "extractor: open docx archive")}
	}

	paragraphs, err := readParagraphs(zr)
	if err != nil {
		return models.SourceDocument{}, &DocumentError{Source: "stream", Err: err}
	}
	return models.NewStructuredText(paragraphs), nil
}

// ParseDocxFile is ParseDocx for a file on disk.
func ParseDocxFile(path string) (models.SourceDocument, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return models.SourceDocument{}, &DocumentError{Source: path, Err: eris.Wrap(err, "extractor: open docx")}
	}
	defer zr.Close()

	paragraphs, err := readParagraphs(&zr.Reader)
	if err != nil {
		return models.SourceDocument{}, &DocumentError{Source: path, Err: err}
	}

	doc := models.NewStructuredText(paragraphs)
	doc.Source = path
	return doc, nil
}

func readParagraphs(zr *zip.Reader) ([]string, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	for _, name := range []string{contentTypesPart, mainDocumentPart} {
		if files[name] == nil {
			return nil, fmt.Errorf("missing required file: %s", name)
		}
	}

	rc, err := files[mainDocumentPart].Open()
	if err != nil {
		return nil, eris.Wrap(err, "extractor: open document.xml")
	}
	defer rc.Close()

	paragraphs, err := bodyParagraphs(io.LimitReader(rc, maxPartBytes))
	if err != nil {
		return nil, eris.Wrap(err, "extractor: parse document.xml")
	}
	return paragraphs, nil
}

// bodyParagraphs streams document.xml and returns the text of every <w:p>
// that is a direct child of <w:body>. Tabs and line breaks inside a
// paragraph stay in its text.
func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		// skip counts open elements whose text is not paragraph text
		skip int
	)

	inBodyParagraph := func() bool {
		return len(stack) >= 3 && stack[0] == "document" && stack[1] == "body" && stack[2] == "p"
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			if !inBodyParagraph() {
				continue
			}
			switch t.Name.Local {
			case "txbxContent", "delText", "instrText", "Fallback":
				skip++
			case "tab":
				// <w:tabs><w:tab/> in paragraph properties are tab stops
				if skip == 0 && parent(stack) == "r" {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if skip == 0 && parent(stack) == "r" {
					current.WriteByte('\n')
				}
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected closing element %s", t.Name.Local)
			}
			if inBodyParagraph() {
				switch t.Name.Local {
				case "txbxContent", "delText", "instrText", "Fallback":
					skip--
				}
				if len(stack) == 3 {
					paragraphs = append(paragraphs, current.String())
					current.Reset()
				}
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if skip == 0 && inBodyParagraph() && stack[len(stack)-1] == "t" {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}

// parent returns the name of the element enclosing the innermost one.
func parent(stack []string) string {
	if len(stack) < 2 {
		return ""
	}
	return stack[len(stack)-2]
}
