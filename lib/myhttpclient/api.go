package myhttpclient

import (
	"context"
)

//go:generate mockgen -source=api.go -package myhttpclient -destination http_sender_mock.go HTTPSender
type HTTPSender interface {
	Send(c context.Context, method string, url string, body []byte) (int, []byte, error)
}

// New sends plain JSON requests.
func New() HTTPSender {
	return newHTTPClient(contentTypeJSON, "")
}

// NewWithBearerToken sends JSON requests authenticated with a bearer token.
func NewWithBearerToken(accessToken string) HTTPSender {
	return newHTTPClient(contentTypeJSON, accessToken)
}

// NewFormSender sends form-encoded requests, as oauth token endpoints expect.
func NewFormSender() HTTPSender {
	return newHTTPClient(contentTypeForm, "")
}
