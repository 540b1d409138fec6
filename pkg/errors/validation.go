package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node identifiers accepted from external payloads.
const maxIDLength = 512

// ValidateNodeID checks an identifier received over the HTTP service or from a
// file before it is used as a cache key component or SVG element ID.
//
// Layout engines accept any identifier verbatim; this check belongs to the
// boundary that receives untrusted payloads.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node ID cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidGraph, "node ID too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node ID %q contains control characters", id)
		}
	}
	return nil
}

// ValidateS3URI checks that uri has the form s3://bucket/key.
func ValidateS3URI(uri string) error {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return New(ErrCodeInvalidInput, "S3 URI must start with s3://")
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return New(ErrCodeInvalidInput, "S3 URI must name a bucket and key: %q", uri)
	}
	return nil
}
