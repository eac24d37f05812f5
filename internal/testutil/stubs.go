package testutil

import (
	"context"
	"errors"
	"sync"
)

// StubGenerator implements ai.Generator. It records every call and returns
// either a fixed response or a configured error.
type StubGenerator struct {
	mu sync.Mutex

	Response string
	Err      error

	Calls       int
	UserPrompts []string
}

func (g *StubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Calls++
	g.UserPrompts = append(g.UserPrompts, userPrompt)

	if g.Err != nil {
		return "", g.Err
	}
	if g.Response == "" {
		return "Generated proposal body.", nil
	}
	return g.Response, nil
}

// StubMailer implements email.Sender and records sent mail.
type StubMailer struct {
	mu sync.Mutex

	Err  error
	Sent []SentMail
}

type SentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *StubMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// ErrGeneratorDown is a canned provider failure for tests.
var ErrGeneratorDown = errors.New("provider unavailable")
