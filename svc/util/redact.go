package util

import (
	"regexp"
	"strings"
)

var secretPattern = regexp.MustCompile(`(?i)(password|token|secret|key)=([^\s&]+)`)

// RedactCredential hides a bearer token or paste password for logging,
// keeping just enough to correlate repeated attempts.
func RedactCredential(s string) string {
	if len(s) == 0 {
		return ""
	}
	if len(s) <= 8 {
		return "[REDACTED]"
	}
	return s[:2] + "..." + s[len(s)-2:]
}

// RedactSecret strips credential-looking query parameters out of a log
// line.
func RedactSecret(s string) string {
	return secretPattern.ReplaceAllString(s, "$1=[REDACTED]")
}

// RedactText shortens paste text for log output; full text never goes
// to the log.
func RedactText(text string) string {
	if len(text) == 0 {
		return ""
	}
	if len(text) <= 20 {
		return "[REDACTED]"
	}
	return strings.TrimSpace(text[:10]) + "...[REDACTED]"
}
