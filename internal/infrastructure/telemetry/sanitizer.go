package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// PIILevel defines how much user content may reach logs and traces.
type PIILevel string

const (
	// PIILevelNone redacts all user content
	PIILevelNone PIILevel = "none"
	// PIILevelHashed hashes recognisable PII with a salt
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull performs no sanitization
	PIILevelFull PIILevel = "full"
)

const redacted = "[REDACTED]"

// sensitiveHeaders are never logged verbatim below PIILevelFull.
var sensitiveHeaders = map[string]bool{
	"Authorization":       true,
	"Proxy-Authorization": true,
	"Cookie":              true,
	"Set-Cookie":          true,
	"X-Api-Key":           true,
	"X-Auth-Token":        true,
}

// Sanitizer scrubs queries, URLs and forwarded headers before they are
// written to logs.
type Sanitizer struct {
	level PIILevel
	salt  string

	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
	ssnPattern        *regexp.Regexp
	creditCardPattern *regexp.Regexp
	ipv4Pattern       *regexp.Regexp
}

// ParsePIILevel maps a config value to a level. Unknown values fall back to
// hashed.
func ParsePIILevel(value string) PIILevel {
	switch PIILevel(strings.ToLower(strings.TrimSpace(value))) {
	case PIILevelNone:
		return PIILevelNone
	case PIILevelFull:
		return PIILevelFull
	default:
		return PIILevelHashed
	}
}

// NewSanitizer creates a sanitizer. The salt keeps hashes stable within one
// deployment without making them comparable across deployments.
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	return &Sanitizer{
		level:             level,
		salt:              salt,
		emailPattern:      regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phonePattern:      regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		ssnPattern:        regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		creditCardPattern: regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),
		ipv4Pattern:       regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	}
}

// Level returns the configured level.
func (s *Sanitizer) Level() PIILevel {
	if s == nil {
		return PIILevelHashed
	}
	return s.level
}

// SanitizeText scrubs free text such as a search query. A nil sanitizer
// behaves like PIILevelHashed with no salt.
func (s *Sanitizer) SanitizeText(input string) string {
	if s == nil {
		s = defaultSanitizer
	}
	switch s.level {
	case PIILevelNone:
		if input == "" {
			return ""
		}
		return redacted
	case PIILevelFull:
		return input
	default:
		return s.hashPII(input)
	}
}

// SanitizeHeaders returns a copy of forwarded headers that is safe to log.
// Credential headers are redacted unless the level is full.
func (s *Sanitizer) SanitizeHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	if s == nil {
		s = defaultSanitizer
	}

	result := make(map[string]string, len(headers))
	for k, v := range headers {
		if s.level != PIILevelFull && sensitiveHeaders[http.CanonicalHeaderKey(k)] {
			result[k] = redacted
			continue
		}
		result[k] = s.SanitizeText(v)
	}
	return result
}

func (s *Sanitizer) hashPII(input string) string {
	result := s.emailPattern.ReplaceAllStringFunc(input, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", s.hash(match))
	})
	result = s.ssnPattern.ReplaceAllString(result, "[SSN:REDACTED]")
	result = s.creditCardPattern.ReplaceAllString(result, "[CC:REDACTED]")
	result = s.phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", s.hash(match))
	})
	result = s.ipv4Pattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[IP:%s]", s.hash(match))
	})
	return result
}

// hash returns the first 8 hex chars of a salted SHA-256.
func (s *Sanitizer) hash(data string) string {
	sum := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(sum[:])[:8]
}

var defaultSanitizer = NewSanitizer(PIILevelHashed, "")
