// Package slug allocates the short public identifiers pastes live
// under.
package slug

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
)

// URL-safe alphanumerics only; generated slugs never need escaping.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const defaultLength = 6

// Allocator produces collision-resistant slugs from a crypto-random
// source. Caller-requested slugs pass through verbatim; creation is an
// upsert, so no existence check happens here.
type Allocator struct {
	length int
}

func New(length int) *Allocator {
	if length <= 0 {
		length = defaultLength
	}
	return &Allocator{length: length}
}

// Allocate returns requested unchanged when non-empty, otherwise a
// fresh random slug. At 62^6 the collision chance is negligible for
// expected scale, so there is no retry loop.
func (a *Allocator) Allocate(requested string) (string, error) {
	if requested != "" {
		if !Valid(requested) {
			return "", errors.Errorf("requested slug %q contains invalid characters", requested)
		}
		return requested, nil
	}
	s, err := gonanoid.Generate(alphabet, a.length)
	if err != nil {
		return "", errors.Wrap(err, "generate slug")
	}
	return s, nil
}

// Valid reports whether a caller-supplied slug is usable as a store key
// and a URL path segment.
func Valid(s string) bool {
	if len(s) == 0 || len(s) > 64 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
