// Package parser extracts plain text from uploaded document bytes. A parser
// is selected by file extension and normalizes whitespace identically
// regardless of source format, so the chunker always sees the same shape of
// text.
package parser

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"chonkit/internal/apperr"
)

// Config controls range selection and post-extraction filtering. Range is
// 1-based inclusive and means pages for pdf, paragraphs for docx, lines for
// md/txt/plaintext. Zero values mean "no range restriction".
type Config struct {
	RangeStart int
	RangeEnd   int
	Filters    []*regexp.Regexp
}

func (c Config) hasRange() bool {
	return c.RangeStart > 0 || c.RangeEnd > 0
}

// Parser extracts text from raw bytes.
type Parser interface {
	Parse(ctx context.Context, data []byte, cfg Config) (string, error)
}

// ForPath selects a Parser by file extension.
func ForPath(path string) Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfParser{}
	case ".docx":
		return docxParser{}
	case ".md":
		return lineParser{}
	case ".txt":
		return lineParser{}
	case ".json":
		return jsonParser{}
	default:
		return lineParser{}
	}
}

// selectLines applies a 1-based inclusive range over a slice of units
// (pages, paragraphs, lines) and joins the selected ones with sep.
func selectLines(units []string, cfg Config, sep string) (string, error) {
	if !cfg.hasRange() {
		return strings.Join(units, sep), nil
	}
	start, end := cfg.RangeStart, cfg.RangeEnd
	if start <= 0 {
		start = 1
	}
	if end <= 0 || end > len(units) {
		end = len(units)
	}
	if start > len(units) || start > end {
		return "", apperr.New(apperr.ParseError, "out_of_range")
	}
	return strings.Join(units[start-1:end], sep), nil
}

// applyFilters deletes every non-overlapping match of each filter regex, in
// order, before the next filter sees the text.
func applyFilters(text string, filters []*regexp.Regexp) string {
	for _, re := range filters {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// normalizeWhitespace collapses runs of >=2 spaces to one, trims each line,
// and preserves paragraph breaks (blank lines between paragraphs).
func normalizeWhitespace(text string) string {
	spaceRun := regexp.MustCompile(`[ \t]{2,}`)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = spaceRun.ReplaceAllString(line, " ")
		lines[i] = strings.TrimSpace(line)
	}
	joined := strings.Join(lines, "\n")

	blankRun := regexp.MustCompile(`\n{3,}`)
	joined = blankRun.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}

// finish applies filters then normalizes whitespace, and validates UTF-8.
func finish(text string, cfg Config) (string, error) {
	if !utf8.ValidString(text) {
		return "", apperr.New(apperr.ParseError, "invalid utf-8")
	}
	text = applyFilters(text, cfg.Filters)
	return normalizeWhitespace(text), nil
}

type jsonParser struct{}

func (jsonParser) Parse(_ context.Context, data []byte, cfg Config) (string, error) {
	if !utf8.Valid(data) {
		return "", apperr.New(apperr.ParseError, "invalid utf-8")
	}
	return finish(string(data), cfg)
}

type lineParser struct{}

func (lineParser) Parse(_ context.Context, data []byte, cfg Config) (string, error) {
	if !utf8.Valid(data) {
		return "", apperr.New(apperr.ParseError, "invalid utf-8")
	}
	lines := strings.Split(string(data), "\n")
	selected, err := selectLines(lines, cfg, "\n")
	if err != nil {
		return "", err
	}
	return finish(selected, cfg)
}

type pdfParser struct{}

func (pdfParser) Parse(_ context.Context, data []byte, cfg Config) (string, error) {
	pages, err := extractPDFPages(data)
	if err != nil {
		return "", apperr.Wrap(apperr.ParseError, "pdf extraction failed", err)
	}
	selected, err := selectLines(pages, cfg, "\n\n")
	if err != nil {
		return "", err
	}
	return finish(selected, cfg)
}

type docxParser struct{}

func (docxParser) Parse(_ context.Context, data []byte, cfg Config) (string, error) {
	paragraphs, err := extractDocxParagraphs(data)
	if err != nil {
		return "", apperr.Wrap(apperr.ParseError, "docx extraction failed", err)
	}
	selected, err := selectLines(paragraphs, cfg, "\n\n")
	if err != nil {
		return "", err
	}
	return finish(selected, cfg)
}
