package internal

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// DetectEncoding names the encoding picked for the given content: one of
// the BOM-marked Unicode encodings, or the Windows-1252 fallback.
func DetectEncoding(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return "utf-8"
	case bytes.HasPrefix(data, bomUTF16LE):
		return "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		return "utf-16be"
	default:
		return "windows-1252"
	}
}

// Decode converts raw file bytes to text. A recognized byte-order mark picks
// the encoding and is consumed; anything else decodes as Windows-1252, which
// maps every byte value, so decoding never fails on arbitrary input.
// Malformed sequences under a BOM-selected encoding become U+FFFD.
func Decode(data []byte) (text string, enc string) {
	enc = DetectEncoding(data)
	dec := unicode.BOMOverride(charmap.Windows1252.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		// The replacement policy of the decoders above makes this
		// unreachable in practice; keep whatever was decoded.
		return string(out), enc
	}
	return string(out), enc
}
