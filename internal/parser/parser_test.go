package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"chonkit/internal/apperr"
)

func TestForPath(t *testing.T) {
	require.IsType(t, pdfParser{}, ForPath("a.pdf"))
	require.IsType(t, docxParser{}, ForPath("a.docx"))
	require.IsType(t, lineParser{}, ForPath("a.md"))
	require.IsType(t, lineParser{}, ForPath("a.txt"))
	require.IsType(t, jsonParser{}, ForPath("a.json"))
	require.IsType(t, lineParser{}, ForPath("a.unknown"))
}

func TestLineParser_NormalizesWhitespace(t *testing.T) {
	p := lineParser{}
	out, err := p.Parse(context.Background(), []byte("hello   world  \n\nsecond   line\n\n\n\nthird"), Config{})
	require.NoError(t, err)
	require.Equal(t, "hello world\n\nsecond line\n\nthird", out)
}

func TestLineParser_Range(t *testing.T) {
	p := lineParser{}
	data := []byte("one\ntwo\nthree\nfour\nfive")
	out, err := p.Parse(context.Background(), data, Config{RangeStart: 2, RangeEnd: 4})
	require.NoError(t, err)
	require.Equal(t, "two\nthree\nfour", out)
}

func TestLineParser_OutOfRange(t *testing.T) {
	p := lineParser{}
	data := []byte("one\ntwo")
	_, err := p.Parse(context.Background(), data, Config{RangeStart: 5, RangeEnd: 6})
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	require.Equal(t, apperr.ParseError, kind)
}

func TestLineParser_InvalidUTF8(t *testing.T) {
	p := lineParser{}
	_, err := p.Parse(context.Background(), []byte{0xff, 0xfe, 0xfd}, Config{})
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.ParseError))
}

func TestFilters_AppliedInOrder(t *testing.T) {
	p := lineParser{}
	data := []byte("secret-123 value secret-456")
	cfg := Config{Filters: []*regexp.Regexp{
		regexp.MustCompile(`secret-\d+`),
		regexp.MustCompile(`\s{2,}`),
	}}
	out, err := p.Parse(context.Background(), data, cfg)
	require.NoError(t, err)
	require.Equal(t, "value", out)
}

func TestJSONParser_Passthrough(t *testing.T) {
	p := jsonParser{}
	out, err := p.Parse(context.Background(), []byte(`{"a":  1}`), Config{})
	require.NoError(t, err)
	require.Equal(t, `{"a": 1}`, out)
}

func buildTestDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="ns"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxParser_ExtractsParagraphs(t *testing.T) {
	data := buildTestDocx(t, []string{"First paragraph.", "Second paragraph."})
	p := docxParser{}
	out, err := p.Parse(context.Background(), data, Config{})
	require.NoError(t, err)
	require.Equal(t, "First paragraph.\n\nSecond paragraph.", out)
}

func TestDocxParser_Range(t *testing.T) {
	data := buildTestDocx(t, []string{"one", "two", "three"})
	p := docxParser{}
	out, err := p.Parse(context.Background(), data, Config{RangeStart: 2, RangeEnd: 2})
	require.NoError(t, err)
	require.Equal(t, "two", out)
}

func TestPdfParser_InvalidBytesFail(t *testing.T) {
	p := pdfParser{}
	_, err := p.Parse(context.Background(), []byte("not a pdf"), Config{})
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.ParseError))
}
