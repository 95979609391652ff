// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"sync"
)

// Stub is a scripted Generator for tests. Responses are returned in order
// and the last one repeats once the script runs out. When Fn is set it
// takes precedence over Responses.
type Stub struct {
	Responses []string
	Err       error
	Fn        func(req Request) (string, error)

	mu    sync.Mutex
	calls []Request
}

// Generate implements Generator.
func (s *Stub) Generate(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	n := len(s.calls)
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Fn != nil {
		return s.Fn(req)
	}
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Responses) == 0 {
		return "", errors.New("stub: no responses scripted")
	}
	if n >= len(s.Responses) {
		n = len(s.Responses) - 1
	}
	return s.Responses[n], nil
}

// Calls returns a copy of every request received so far.
func (s *Stub) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.calls...)
}

// CallCount returns the number of requests received so far.
func (s *Stub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
