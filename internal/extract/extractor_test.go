package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractBytesPlainText(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("hello world"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello world" {
		t.Errorf("got %q", text)
	}
}

func TestExtractBytesKoreanText(t *testing.T) {
	e := NewExtractor()
	want := "감사 계획 문서"
	text, err := e.ExtractBytes([]byte(want), ".md")
	if err != nil {
		t.Fatal(err)
	}
	if text != want {
		t.Errorf("got %q", text)
	}
}

func TestExtractBytesEmpty(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes(nil, ".txt"); err == nil {
		t.Error("empty buffer should fail")
	}
}

func makeDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractBytesDocx(t *testing.T) {
	e := NewExtractor()
	raw := makeDocx(t, `<w:document><w:body><w:p w:rsidR="0"><w:r><w:t>first part</w:t></w:r><w:r><w:t xml:space="preserve">second part</w:t></w:r></w:p></w:body></w:document>`)
	text, err := e.ExtractBytes(raw, ".docx")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "first part") || !strings.Contains(text, "second part") {
		t.Errorf("got %q", text)
	}
}

func TestExtractBytesDocxFallsBackToPlain(t *testing.T) {
	// A .docx that is not a zip is treated as plain text of unknown encoding.
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("not really a docx"), ".docx")
	if err != nil {
		t.Fatal(err)
	}
	if text != "not really a docx" {
		t.Errorf("got %q", text)
	}
}

func TestExtractBytesUnknownExtension(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("fallback"), ".weird")
	if err != nil {
		t.Fatal(err)
	}
	if text != "fallback" {
		t.Errorf("got %q", text)
	}
}
