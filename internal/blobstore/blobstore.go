// Package blobstore is the boundary to the external image store. The
// core only ever stores opaque references and resolves them to
// retrievable URLs; it never touches image bytes.
package blobstore

import "strings"

// Resolver turns a stored image reference into a retrievable URL.
type Resolver interface {
	URL(ref string) string
}

// BaseURLResolver prefixes references with a static media base URL,
// e.g. a CDN or the upload host.
type BaseURLResolver struct {
	base string
}

func NewBaseURLResolver(base string) *BaseURLResolver {
	return &BaseURLResolver{base: strings.TrimRight(base, "/")}
}

func (r *BaseURLResolver) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return r.base + "/" + strings.TrimLeft(ref, "/")
}
