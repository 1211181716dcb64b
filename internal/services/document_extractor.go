package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	FileTypePDF  = "pdf"
	FileTypeDOCX = "docx"
)

var ErrUnsupportedFileType = errors.New("unsupported file type. Only PDF and DOCX are allowed")

type DocumentExtractor interface {
	Extract(filename string, data []byte) (*DocumentContent, error)
}

type DocumentContent struct {
	Text      string
	FileType  string
	PageCount int
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

// DetectFileType maps a filename to a supported document type.
func DetectFileType(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FileTypePDF, nil
	case ".docx":
		return FileTypeDOCX, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// Extract returns the document text. Blank text is not an error; the caller
// decides what an empty resume means.
func (d *documentExtractor) Extract(filename string, data []byte) (*DocumentContent, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, err
	}

	switch fileType {
	case FileTypePDF:
		text, pages, err := extractPDF(data)
		if err != nil {
			return nil, fmt.Errorf("could not process PDF file: %w", err)
		}
		return &DocumentContent{Text: text, FileType: fileType, PageCount: pages}, nil
	default:
		text, err := extractDOCX(data)
		if err != nil {
			return nil, fmt.Errorf("could not process DOCX file: %w", err)
		}
		return &DocumentContent{Text: text, FileType: fileType, PageCount: 1}, nil
	}
}

func extractPDF(data []byte) (text string, pages int, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if strings.TrimSpace(pageText) != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	return textBuilder.String(), totalPage, nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a valid DOCX archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document body: %w", err)
		}
		defer rc.Close()

		paragraphs, err := docxParagraphs(rc)
		if err != nil {
			return "", err
		}
		return strings.Join(paragraphs, "\n"), nil
	}

	return "", fmt.Errorf("document body not found in DOCX archive")
}

// docxParagraphs walks WordprocessingML and returns non-blank paragraph text.
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				current.Reset()
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br", "cr":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if para := current.String(); strings.TrimSpace(para) != "" {
					paragraphs = append(paragraphs, para)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
