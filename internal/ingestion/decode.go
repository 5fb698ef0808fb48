// Package ingestion turns uploaded resume files into text for the scorer.
package ingestion

import (
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/charmap"
)

// Placeholder stands in for uploads that are not plain text. No binary format is parsed.
const Placeholder = "Sample resume with data engineering experience, Python, SQL skills, 4 years experience..."

// PreviewLength is the number of characters kept as a resume preview.
const PreviewLength = 200

// ErrInvalidUTF8 is returned by the strict UTF-8 charset.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 sequence")

// Charset decodes raw bytes into text, failing when the bytes are not valid for it.
type Charset struct {
	Name   string
	Decode func([]byte) (string, error)
}

// DefaultCharsets is the fallback chain applied to text uploads, in order.
var DefaultCharsets = []Charset{
	{Name: "utf-8", Decode: decodeUTF8},
	{Name: "latin-1", Decode: decodeCharmap(charmap.ISO8859_1)},
	{Name: "cp1252", Decode: decodeCharmap(charmap.Windows1252)},
}

// Upload is a raw file as received from a form or read from disk.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Document is the decoded text of an upload.
type Document struct {
	Filename    string
	Text        string
	Charset     string
	Placeholder bool
	Metadata    *Metadata
}

// Preview returns the first PreviewLength characters of the text.
func (d Document) Preview() string {
	return Truncate(d.Text, PreviewLength)
}

// DecodeError reports an upload that no charset in the chain could decode.
type DecodeError struct {
	Filename string
	Attempts []string
	Cause    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: tried %s: %v", e.Filename, strings.Join(e.Attempts, ", "), e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Decoder applies a charset fallback chain to text uploads.
type Decoder struct {
	charsets []Charset
}

// NewDecoder creates a decoder with the given chain, or DefaultCharsets when none is given.
func NewDecoder(charsets ...Charset) *Decoder {
	if len(charsets) == 0 {
		charsets = DefaultCharsets
	}
	return &Decoder{charsets: charsets}
}

// Decode returns the text of u. Non-text uploads yield the placeholder text.
// The first charset that decodes without error is used; if all fail a *DecodeError is returned.
func (d *Decoder) Decode(u Upload) (Document, error) {
	if !IsPlainText(u) {
		return Document{
			Filename:    u.Filename,
			Text:        Placeholder,
			Placeholder: true,
			Metadata:    NewMetadata(u.Data, ""),
		}, nil
	}

	attempts := make([]string, 0, len(d.charsets))
	var lastErr error
	for _, cs := range d.charsets {
		attempts = append(attempts, cs.Name)
		text, err := cs.Decode(u.Data)
		if err != nil {
			lastErr = err
			continue
		}
		return Document{
			Filename: u.Filename,
			Text:     text,
			Charset:  cs.Name,
			Metadata: NewMetadata(u.Data, cs.Name),
		}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no charsets configured")
	}
	return Document{}, &DecodeError{Filename: u.Filename, Attempts: attempts, Cause: lastErr}
}

// IsPlainText reports whether u is a text/plain upload. A declared content type wins;
// without one (or with a generic binary type) the content is sniffed, and any
// text/plain subtype such as CSV or HTML counts as text.
func IsPlainText(u Upload) bool {
	declared := strings.TrimSpace(u.ContentType)
	if declared != "" {
		mediaType, _, err := mime.ParseMediaType(declared)
		if err == nil && mediaType != "application/octet-stream" {
			return mediaType == "text/plain"
		}
	}
	for m := mimetype.Detect(u.Data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most limit characters.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func decodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(b []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}
