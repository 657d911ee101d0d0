package storage

import (
	"errors"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"
)

// matches reports whether err carries one of codes as its S3 error code or,
// for gateways that only surface text, one of fragments in its message.
func matches(err error, codes []string, fragments ...string) bool {
	if err == nil {
		return false
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && slices.Contains(codes, strings.ToLower(strings.TrimSpace(resp.Code))) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return slices.ContainsFunc(fragments, func(f string) bool { return strings.Contains(msg, f) })
}

// IsNoSuchKey reports whether err means the object does not exist.
func IsNoSuchKey(err error) bool {
	return matches(err, []string{"nosuchkey", "notfound"},
		"nosuchkey", "specified key does not exist", "not found")
}

// IsNoSuchBucket reports whether err means the bucket does not exist.
func IsNoSuchBucket(err error) bool {
	return matches(err, []string{"nosuchbucket"},
		"nosuchbucket", "specified bucket does not exist")
}
