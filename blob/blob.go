// Package blob defines the contract for turning file handles held by
// embed capabilities into references the rendering surface can fetch.
package blob

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/quillkit-dev/quillkit-host-sdk/netutil"
)

// FileHandle identifies an uploaded file attached to an editing surface.
type FileHandle struct {
	ID   string
	Name string
	Size int64
}

// Resolver produces a fetchable reference for a file handle. Failure
// semantics belong to the implementor; the composition engine passes the
// resolver through to the image capability untouched.
type Resolver interface {
	ResolveBlob(ctx context.Context, handle FileHandle) (string, error)
}

// EndpointResolver resolves file handles against an HTTP blob endpoint.
type EndpointResolver struct {
	baseURL string
}

// NewEndpointResolver creates a resolver rooted at the given endpoint.
// The endpoint is normalized and stripped of any embedded credentials.
func NewEndpointResolver(baseURL string) *EndpointResolver {
	return &EndpointResolver{
		baseURL: strings.TrimSuffix(netutil.NormalizeURL(baseURL), "/"),
	}
}

// ResolveBlob returns the fetch URL for the handle.
func (r *EndpointResolver) ResolveBlob(ctx context.Context, handle FileHandle) (string, error) {
	if handle.ID == "" {
		return "", fmt.Errorf("file handle has no id")
	}
	return fmt.Sprintf("%s/blobs/%s?name=%s", r.baseURL, url.PathEscape(handle.ID), url.QueryEscape(handle.Name)), nil
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, handle FileHandle) (string, error)

// ResolveBlob calls the underlying function.
func (f ResolverFunc) ResolveBlob(ctx context.Context, handle FileHandle) (string, error) {
	return f(ctx, handle)
}
