// Package docx extracts plain text from .docx documents. A .docx file is a
// zip archive; the body lives in word/document.xml, with runs of text inside
// w:t elements. Paragraphs and table cells appear in document order.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

const documentPart = "word/document.xml"

// Text returns the document's plain text, one line per paragraph. Table cell
// contents are included where the table appears in the body.
func Text(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "docx: open archive")
	}

	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", eris.Wrap(err, "docx: open document part")
		}
		defer rc.Close() //nolint:errcheck
		return parseDocument(rc)
	}

	return "", eris.Errorf("docx: %s not found in archive", documentPart)
}

func parseDocument(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "docx: parse document part")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
