// Package codec serializes paste records to and from their stored
// representation.
package codec

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"slugbin/pkg/domain"
)

// ErrMalformedRecord is returned when stored bytes cannot be decoded.
// The caller surfaces it, never swallows it.
var ErrMalformedRecord = errors.New("malformed paste record")

// Encode renders a record as the stored JSON value. Optional metadata
// fields are omitted entirely when absent, so absence survives a round
// trip.
func Encode(rec *domain.PasteRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "encode paste record")
	}
	return data, nil
}

// Decode parses stored bytes back into a record. The slug is not part
// of the stored value; callers set it from the store key.
func Decode(data []byte) (*domain.PasteRecord, error) {
	var rec domain.PasteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	return &rec, nil
}

var quoteReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

// NormalizeQuotes maps typographic quotes pasted from rich editors to
// their ASCII forms. Applied to inbound request bodies before JSON
// parsing; it is not part of the stored-record contract.
func NormalizeQuotes(body []byte) []byte {
	if !strings.ContainsAny(string(body), "‘’“”") {
		return body
	}
	return []byte(quoteReplacer.Replace(string(body)))
}

// SanitizeText NFC-normalizes user text and drops invalid UTF-8 runes.
// Newlines and tabs survive; other control characters do not.
func SanitizeText(s string) string {
	s = norm.NFC.String(s)
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
