// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"fmt"
	"net/http"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderReferer       = "HTTP-Referer"
	HeaderTitle         = "X-Title"

	// AppTitle identifies this application to OpenRouter's attribution system.
	AppTitle = "AI Persona Cards"
)

// Credentials decorates outbound completion requests with the bearer key and
// the attribution headers expected by the OpenRouter gateway.
type Credentials struct {
	Key string
}

// NewCredentials constructs Credentials for the given API key. An empty key is
// permitted; Attach rejects it at request time.
func NewCredentials(key string) *Credentials {
	return &Credentials{Key: key}
}

// Configured reports whether an API key is present.
func (c *Credentials) Configured() bool {
	return c.Key != ""
}

// Attach mutates the request by injecting the bearer token, the content type,
// and the attribution headers. The referer is passed through from the caller's
// Origin header unvalidated; the upstream uses it for ranking only.
func (c *Credentials) Attach(req *http.Request, origin string) error {
	if c.Key == "" {
		return fmt.Errorf("api key must be set")
	}

	req.Header.Set(HeaderAuthorization, "Bearer "+c.Key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderReferer, origin)
	req.Header.Set(HeaderTitle, AppTitle)

	return nil
}
