package ingest

import (
	"bytes"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// decodeToUTF8 sniffs the text encoding of raw and returns its UTF-8
// transcription together with the detected charset name. Undetectable or
// unsupported charsets fall back to treating the input as UTF-8, matching
// the tolerant behavior expected from inventory exports of unknown origin.
func decodeToUTF8(raw []byte) ([]byte, string) {
	det := chardet.NewTextDetector()
	result, err := det.DetectBest(raw)
	if err != nil || result == nil || result.Charset == "" {
		return raw, "UTF-8"
	}

	enc, err := ianaindex.IANA.Encoding(result.Charset)
	if err != nil || enc == nil {
		return raw, "UTF-8"
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return raw, "UTF-8"
	}

	return bytes.ToValidUTF8(decoded, []byte("?")), result.Charset
}
