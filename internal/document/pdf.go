package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LoadPDF extracts the text of every page of the PDF at path into a
// Document named after the file. Each page's text is prefixed with a
// boundary marker so answers can reference the page it came from.
// A page that fails to decode is noted inline and skipped rather than
// aborting the whole document.
func LoadPDF(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	total := r.NumPage()

	var sb strings.Builder
	for pageNum := 1; pageNum <= total; pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			fmt.Fprintf(&sb, "\n--- %s Page %d ---\n[error reading page: %v]", name, pageNum, err)
			continue
		}

		fmt.Fprintf(&sb, "\n--- %s Page %d ---\n%s", name, pageNum, cleanText(text))
	}

	text := sb.String()
	return Document{
		Name:      name,
		Text:      text,
		Pages:     total,
		CharCount: len(text),
	}, nil
}

// cleanText normalizes line endings and strips artifacts common in
// PDF extraction.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(text)
}
