package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDocxParagraphs walks the OOXML document body and returns the text
// of each paragraph, in order. No pack repo vendors a DOCX reader, so this
// is a minimal reader over the zip central directory and word/document.xml,
// built on encoding/xml rather than a third-party library.
func extractDocxParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	var docFile io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile, err = f.Open()
			if err != nil {
				return nil, fmt.Errorf("open word/document.xml: %w", err)
			}
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found")
	}
	defer docFile.Close()

	return parseDocxXML(docFile)
}

// docxParagraph and docxRun mirror only the fields we need from the OOXML
// WordprocessingML schema: w:body > w:p > w:r > w:t.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text string `xml:"t"`
}

func parseDocxXML(r io.Reader) ([]string, error) {
	var doc docxDocument
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document.xml: %w", err)
	}

	paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
	for _, p := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, run := range p.Runs {
			b.WriteString(run.Text)
		}
		paragraphs = append(paragraphs, b.String())
	}
	return paragraphs, nil
}
