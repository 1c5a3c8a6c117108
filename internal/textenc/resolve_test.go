package textenc

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

func TestResolveUTF8(t *testing.T) {
	text := "IT 감사계획은 연간 리스크 평가에 기반한다."
	got, enc, err := Resolve([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	if enc != EncodingUTF8 {
		t.Errorf("encoding: got %s", enc)
	}
	if got != text {
		t.Errorf("round-trip mismatch: got %q", got)
	}
	if strings.Contains(got, "�") {
		t.Error("valid UTF-8 must decode without replacement characters")
	}
}

func TestResolveEUCKR(t *testing.T) {
	text := "내부통제 점검 결과 보고서"
	raw, err := korean.EUCKR.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	got, enc, err := Resolve(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got != text {
		t.Errorf("got %q, want %q", got, text)
	}
	if enc != EncodingEUCKR && enc != EncodingCP949 {
		t.Errorf("encoding: got %s", enc)
	}
}

func TestResolveUTF16LE(t *testing.T) {
	// Hangul UTF-16LE byte pairs are often valid CP949 sequences, so the
	// Korean candidates would accept them as mojibake before UTF-16LE is
	// tried (the legacy pipeline behaved the same way). Characters whose
	// byte pairs are invalid in CP949 force the resolver all the way down
	// to the UTF-16LE candidate.
	text := strings.Repeat("€", 8)
	enc16 := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	raw, err := enc16.Bytes([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	got, enc, err := Resolve(raw)
	if err != nil {
		t.Fatal(err)
	}
	if enc != EncodingUTF16LE {
		t.Errorf("encoding: got %s", enc)
	}
	if got != text {
		t.Errorf("got %q, want %q", got, text)
	}
}

func TestResolveEmpty(t *testing.T) {
	got, enc, err := Resolve(nil)
	if err != ErrEmpty {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if got != "" || enc != EncodingUnknown {
		t.Errorf("got %q / %s", got, enc)
	}
}

func TestResolveASCII(t *testing.T) {
	got, enc, err := Resolve([]byte("plain ascii text"))
	if err != nil {
		t.Fatal(err)
	}
	if enc != EncodingUTF8 {
		t.Errorf("ASCII should resolve as UTF-8, got %s", enc)
	}
	if got != "plain ascii text" {
		t.Errorf("got %q", got)
	}
}

func TestResolveNeverFailsOnGarbage(t *testing.T) {
	// Arbitrary binary data still produces a best-effort string.
	data := []byte{0xFF, 0xFE, 0xFD, 0x80, 0x81, 0x82, 0xFF, 0xFF}
	got, enc, err := Resolve(data)
	if err != nil {
		t.Fatalf("garbage input must not fail: %v", err)
	}
	if got == "" && enc == EncodingUnknown {
		t.Error("expected a best-effort decode")
	}
}
