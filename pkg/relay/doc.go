// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package relay implements the streaming chat-completion proxy that fronts
// the OpenRouter API. It accepts a client chat request, forwards it upstream
// with streaming forced on, and pipes the upstream line stream back to the
// client as a text/event-stream without buffering the reply. Errors raised
// before streaming begins are surfaced as a single JSON body; once streaming
// has started an upstream failure simply ends the client stream.
package relay
