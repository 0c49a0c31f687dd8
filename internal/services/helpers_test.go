package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Shared test doubles. The store side is covered by memstore; these fakes
// stand in for the outbound collaborators.

type fakeGen struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (f *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func failingGen() *fakeGen {
	return &fakeGen{err: errors.New("model unavailable")}
}

type pushCall struct {
	Token string
	Title string
	Body  string
}

type fakePush struct {
	mu    sync.Mutex
	calls []pushCall
	err   error
}

func (f *fakePush) SendToToken(_ context.Context, token, title, body string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pushCall{Token: token, Title: title, Body: body})
	return f.err
}

type fakeEmail struct {
	mu      sync.Mutex
	sent    []EmailMessage
	err     error
	failFor map[string]bool // by recipient address
}

func (f *fakeEmail) Send(msg EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.failFor[msg.To] {
		return errors.New("smtp rejected")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeEmail) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	return out
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// clockAt pins a service's time source to a fixed instant.
func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
