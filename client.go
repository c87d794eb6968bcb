package fetch

import (
	"context"
)

// DefaultClient is used by the package level helpers.
var DefaultClient = &Client{}

// Get sends a GET request to url with DefaultClient.
func Get(ctx context.Context, url string) (*Response, error) {
	req, err := NewRequest(MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return DefaultClient.CtxDo(ctx, req)
}

// Post sends body to url with DefaultClient. contentType is omitted from
// the request when empty.
func Post(ctx context.Context, url, contentType string, body interface{}) (*Response, error) {
	req, err := NewRequest(MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return DefaultClient.CtxDo(ctx, req)
}

// PostJSON sends v encoded as JSON to url with DefaultClient.
func PostJSON(ctx context.Context, url string, v interface{}) (*Response, error) {
	req, err := NewJSONRequest(MethodPost, url, v)
	if err != nil {
		return nil, err
	}
	return DefaultClient.CtxDo(ctx, req)
}
