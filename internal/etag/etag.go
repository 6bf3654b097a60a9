// Package etag computes the per-identity, per-day validation tag used for conditional GETs.
package etag

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// SampleIdentity stands in for an identity when tagging the demonstration edition.
const SampleIdentity = "sample"

// ComputeValidationTag fingerprints identity and the calendar day of date in date's location.
func ComputeValidationTag(identity string, date time.Time) string {
	sum := md5.Sum([]byte(identity + date.Format("02012006")))
	return hex.EncodeToString(sum[:])
}

// Header formats a tag as a strong ETag header value.
func Header(tag string) string { return `"` + tag + `"` }

// Matches reports whether an If-None-Match header value names tag.
func Matches(ifNoneMatch, tag string) bool {
	if ifNoneMatch == "" || tag == "" {
		return false
	}
	for _, part := range strings.Split(ifNoneMatch, ",") {
		p := strings.TrimSpace(part)
		if p == "*" {
			return true
		}
		p = strings.TrimPrefix(p, "W/")
		if strings.Trim(p, `"`) == tag {
			return true
		}
	}
	return false
}
