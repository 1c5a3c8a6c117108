// Package textenc recovers readable text from byte buffers of unknown encoding.
package textenc

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the candidate encoding used to decode a buffer.
type Encoding string

const (
	EncodingUnknown Encoding = ""
	EncodingUTF8    Encoding = "utf-8"
	EncodingEUCKR   Encoding = "euc-kr"
	EncodingCP949   Encoding = "cp949"
	EncodingUTF16LE Encoding = "utf-16le"
)

// ErrEmpty is returned when the input buffer is empty. Callers must treat
// this as an ingestion failure.
var ErrEmpty = errors.New("empty input buffer")

// maxReplacementRatio is the highest tolerable share of replacement characters
// in a decoded candidate before the next encoding is tried.
const maxReplacementRatio = 0.10

const replacementChar = "�"

type candidate struct {
	name   Encoding
	decode func([]byte) string
}

// Candidate order is fixed: UTF-8 first, then the Korean encodings, then
// UTF-16LE. x/text's EUCKR table is the Windows-949 superset, so the EUC-KR
// and CP949 candidates share a decoder; both names are kept so the reported
// encoding matches what callers expect.
var candidates = []candidate{
	{EncodingUTF8, decodeUTF8},
	{EncodingEUCKR, decodeEUCKR},
	{EncodingCP949, decodeEUCKR},
	{EncodingUTF16LE, decodeUTF16LE},
}

// Resolve decodes data by trying candidate encodings in fixed priority order.
// A candidate is accepted when its decoded text contains no replacement
// characters, or when the replacement ratio is at most 10%. If no candidate
// passes, the buffer is force-decoded as CP949 and the (possibly lossy)
// result is returned; this path never fails. An empty buffer returns ErrEmpty.
func Resolve(data []byte) (string, Encoding, error) {
	if len(data) == 0 {
		return "", EncodingUnknown, ErrEmpty
	}
	for _, c := range candidates {
		decoded := c.decode(data)
		if decoded == "" {
			continue
		}
		bad := strings.Count(decoded, replacementChar)
		if bad == 0 {
			return decoded, c.name, nil
		}
		total := utf8.RuneCountInString(decoded)
		if total > 0 && float64(bad)/float64(total) <= maxReplacementRatio {
			return decoded, c.name, nil
		}
	}
	// Last resort: force CP949 and accept whatever comes out.
	return decodeEUCKR(data), EncodingCP949, nil
}

func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), replacementChar)
}

func decodeEUCKR(data []byte) string {
	decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func decodeUTF16LE(data []byte) string {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, err := dec.Bytes(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}
