package logger

import (
	"regexp"
	"strings"
)

var credentialParam = regexp.MustCompile(`(?i)\b(key|token)=[^&\s"]+`)

// RedactSecret masks a credential for safe logging, keeping a short prefix so
// operators can still tell two keys apart.
// "0123456789abcdef" → "0123***"
// Short values (≤4 chars) are fully masked: "abcd" → "***"
func RedactSecret(s string) string {
	if len(s) > 4 {
		return s[:4] + "***"
	}
	return "***"
}

// RedactURL masks key= and token= query parameters embedded in s.
func RedactURL(s string) string {
	return credentialParam.ReplaceAllString(s, "$1=***")
}

func redactValue(key, val string) string {
	key = strings.ToLower(key)
	if strings.Contains(key, "token") || strings.Contains(key, "secret") ||
		key == "key" || strings.HasSuffix(key, "_key") {
		return RedactSecret(val)
	}
	return RedactURL(val)
}
