// Package testutil builds fixtures shared by package tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// Part is one file inside a zip archive.
type Part struct {
	Name    string
	Content string
}

// BuildDocx returns a minimal Word document with one paragraph per entry.
func BuildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		if p == "" {
			body.WriteString(`<w:p/>`)
			continue
		}
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(Escape(t, p))
		body.WriteString(`</w:t></w:r></w:p>`)
	}

	return BuildDocxBody(t, body.String())
}

// BuildDocxBody returns a Word document whose <w:body> holds bodyXML
// verbatim. Extra parts, such as headers, are added to the archive as given.
func BuildDocxBody(t *testing.T, bodyXML string, extra ...Part) []byte {
	t.Helper()

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006" ` +
		`xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape"><w:body>` +
		bodyXML +
		`</w:body></w:document>`

	parts := []Part{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", document},
	}
	return BuildZip(t, append(parts, extra...)...)
}

// BuildZip writes parts into a zip archive in order.
func BuildZip(t *testing.T, parts ...Part) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.Name)
		require.NoError(t, err)
		_, err = w.Write([]byte(p.Content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// Escape returns s escaped for use as XML text.
func Escape(t *testing.T, s string) string {
	t.Helper()

	var escaped bytes.Buffer
	require.NoError(t, xml.EscapeText(&escaped, []byte(s)))
	return escaped.String()
}
