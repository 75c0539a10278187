package resume

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNotFound is returned when the resume file does not exist.
	ErrNotFound = errors.New("resume file not found")
	// ErrUnsupportedFormat is returned for anything other than PDF or DOCX.
	ErrUnsupportedFormat = errors.New("unsupported resume format, use PDF or DOCX")
)

// Extract reads the resume file and returns its plain text, dispatching on the
// file extension.
func Extract(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat resume file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	default:
		return "", ErrUnsupportedFormat
	}
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if text = strings.TrimSpace(text); text != "" {
			builder.WriteString(text)
			builder.WriteString(" ")
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func extractDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()

		var doc struct {
			Paragraphs []docxParagraph `xml:"body>p"`
		}
		if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		parts := make([]string, 0, len(doc.Paragraphs))
		for _, p := range doc.Paragraphs {
			if text := p.text(); text != "" {
				parts = append(parts, text)
			}
		}

		return strings.Join(parts, " "), nil
	}

	return "", fmt.Errorf("open docx: %w", errors.New("word/document.xml is missing"))
}

type docxParagraph struct {
	Runs []struct {
		Text []string `xml:"t"`
	} `xml:"r"`
}

func (p docxParagraph) text() string {
	var builder strings.Builder
	for _, run := range p.Runs {
		for _, t := range run.Text {
			builder.WriteString(t)
		}
	}
	return strings.TrimSpace(builder.String())
}
