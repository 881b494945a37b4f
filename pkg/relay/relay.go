// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package relay

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fastjson"

	"github.com/persona-cards/relay/pkg/auth"
	"github.com/persona-cards/relay/pkg/config"
)

const (
	// maxErrorBody bounds how much of an upstream error payload is read.
	maxErrorBody = 64 * 1024

	// fallbackErrorMessage is surfaced when an upstream error body carries no
	// extractable error.message field.
	fallbackErrorMessage = "API call failed"
)

// ChatRequest is the client-submitted payload. Message entries are forwarded
// verbatim; their conversational structure is the upstream's concern.
type ChatRequest struct {
	Messages []json.RawMessage `json:"messages"`
	Model    string            `json:"model,omitempty"`
}

// upstreamRequest is the ChatRequest reshaped for the completions endpoint,
// with streaming forced on.
type upstreamRequest struct {
	Model    string            `json:"model"`
	Messages []json.RawMessage `json:"messages"`
	Stream   bool              `json:"stream"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type healthResponse struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

// Relay terminates client chat requests and pipes the upstream completion
// stream back line by line.
type Relay struct {
	// cfg keeps runtime knobs such as the upstream URL and default model.
	cfg config.Config
	// client performs outbound HTTP requests with tuned transport settings.
	client *http.Client
	// creds injects the bearer key and attribution headers.
	creds *auth.Credentials
	// logger emits structured logs for observability.
	logger zerolog.Logger
}

// New constructs a Relay backed by an http.Client configured for long-lived
// streaming responses and the provided runtime configuration.
func New(cfg config.Config) (http.Handler, error) {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.HeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, // nolint:gosec -- opt-in for development scenarios
		},
	}

	// No overall client timeout: a streamed completion stays open until the
	// model finishes. Connection-level timeouts live on the transport.
	client := &http.Client{
		Transport: transport,
	}

	handler := &Relay{
		cfg:    cfg,
		client: client,
		creds:  auth.NewCredentials(cfg.APIKey),
		logger: log.With().Str("component", "relay").Logger(),
	}

	return handler, nil
}

// ServeHTTP dispatches the two endpoints the relay exposes.
func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/chat" && r.Method == http.MethodPost:
		rl.handleChat(w, r)
	case r.URL.Path == "/health" && r.Method == http.MethodGet:
		rl.handleHealth(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleChat validates the client request, forwards it upstream with
// streaming forced on, and relays the response lines as they arrive.
func (rl *Relay) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	event := rl.logger.With().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Logger()

	if !rl.creds.Configured() {
		rl.writeError(w, event, &Error{
			Kind:    KindConfig,
			Status:  http.StatusInternalServerError,
			Message: "API key not configured",
		})
		return
	}

	chatReq, err := decodeChatRequest(r.Body)
	if err != nil {
		rl.writeError(w, event, &Error{
			Kind:    KindBadRequest,
			Status:  http.StatusInternalServerError,
			Message: "request body must be valid JSON",
			Err:     err,
		})
		return
	}

	resp, rerr := rl.forward(r.Context(), chatReq, r.Header.Get("Origin"))
	if rerr != nil {
		rl.writeError(w, event, rerr)
		return
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			event.Error().
				Err(closeErr).
				Msg("close upstream response body failed")
		}
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		rl.writeError(w, event, &Error{
			Kind:    KindConfig,
			Status:  http.StatusInternalServerError,
			Message: "streaming unsupported",
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	lines, streamErr := relayLines(w, flusher, resp.Body)
	if streamErr != nil {
		// The stream has already committed to line-oriented output; the
		// client only observes it ending early.
		event.Warn().
			Err(&Error{Kind: KindStreamInterrupted, Err: streamErr}).
			Int("lines", lines).
			Dur("duration", time.Since(start)).
			Msg("stream interrupted")
		return
	}

	event.Info().
		Int("lines", lines).
		Dur("duration", time.Since(start)).
		Msg("stream completed")
}

// handleHealth reports process liveness and key presence. It never contacts
// the upstream.
func (rl *Relay) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:           "ok",
		APIKeyConfigured: rl.creds.Configured(),
	}); err != nil {
		rl.logger.Error().Err(err).Msg("encode health response failed")
	}
}

// forward issues the single upstream attempt and returns the streaming
// response on 200. Any other outcome is mapped to a client-facing Error.
func (rl *Relay) forward(ctx context.Context, chatReq ChatRequest, origin string) (*http.Response, *Error) {
	payload := upstreamRequest{
		Model:    chatReq.Model,
		Messages: chatReq.Messages,
		Stream:   true,
	}
	if payload.Model == "" {
		payload.Model = rl.cfg.DefaultModel
	}
	if payload.Messages == nil {
		// Absent messages become an empty conversation; rejecting it is the
		// upstream's call.
		payload.Messages = []json.RawMessage{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{
			Kind:    KindBadRequest,
			Status:  http.StatusInternalServerError,
			Message: "request body must be valid JSON",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rl.cfg.Upstream.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{
			Kind:    KindUpstreamRejected,
			Status:  http.StatusInternalServerError,
			Message: fallbackErrorMessage,
			Err:     err,
		}
	}

	if err := rl.creds.Attach(req, origin); err != nil {
		return nil, &Error{
			Kind:    KindConfig,
			Status:  http.StatusInternalServerError,
			Message: "API key not configured",
			Err:     err,
		}
	}

	resp, err := rl.client.Do(req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		return nil, &Error{
			Kind:    KindUpstreamRejected,
			Status:  status,
			Message: fallbackErrorMessage,
			Err:     err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		errBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			errBody = nil
		}
		return nil, &Error{
			Kind:    KindUpstreamRejected,
			Status:  resp.StatusCode,
			Message: upstreamErrorMessage(errBody),
		}
	}

	return resp, nil
}

// writeError converts a relay failure into the single JSON error body the
// client receives before any streaming has begun.
func (rl *Relay) writeError(w http.ResponseWriter, event zerolog.Logger, rerr *Error) {
	event.Warn().
		Err(rerr).
		Str("kind", rerr.Kind.String()).
		Int("status", rerr.Status).
		Msg("request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rerr.Status)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:  rerr.Message,
		Status: rerr.Status,
	}); err != nil {
		event.Error().Err(err).Msg("encode error response failed")
	}
}

// decodeChatRequest parses the client body. An empty body and a body without
// a messages field both yield an empty conversation.
func decodeChatRequest(body io.Reader) (ChatRequest, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return ChatRequest{}, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return ChatRequest{}, nil
	}

	var req ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return ChatRequest{}, err
	}
	return req, nil
}

// upstreamErrorMessage extracts error.message from an upstream error payload,
// falling back to a generic message when parsing fails or the field is absent.
func upstreamErrorMessage(payload []byte) string {
	if len(payload) == 0 {
		return fallbackErrorMessage
	}

	var parser fastjson.Parser
	v, err := parser.ParseBytes(payload)
	if err != nil {
		return fallbackErrorMessage
	}

	msg := v.GetStringBytes("error", "message")
	if len(msg) == 0 {
		return fallbackErrorMessage
	}
	return string(msg)
}
