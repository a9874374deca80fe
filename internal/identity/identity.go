// Package identity derives stable entity identifiers from scraped URLs.
package identity

import "regexp"

var trailingSegmentRe = regexp.MustCompile(`/([^/?]+)(?:\?|$)`)

// ExtractID returns the trailing path segment of an href, up to the next '/'
// or '?'. Re-scraped content resolves to the same identifier, which is what
// makes note and user inserts idempotent. Returns "" when the href is empty
// or has no usable segment.
func ExtractID(href string) string {
	if href == "" {
		return ""
	}
	m := trailingSegmentRe.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}
