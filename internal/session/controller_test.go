// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/model"
)

// stubSender lets tests script the backend's behavior, including blocking
// mid-request to exercise the in-flight guard.
type stubSender struct {
	mu      sync.Mutex
	resp    *api.SendResponse
	err     error
	calls   int
	lastMsg string
	lastSID string
	block   chan struct{} // if non-nil, Send waits until closed
}

func (s *stubSender) Send(ctx context.Context, message, sessionID string) (*api.SendResponse, error) {
	s.mu.Lock()
	s.calls++
	s.lastMsg = message
	s.lastSID = sessionID
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resp, s.err
}

func (s *stubSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSendSuccessAdoptsSessionID(t *testing.T) {
	stub := &stubSender{resp: &api.SendResponse{
		Message:   "RAG combines retrieval with generation.",
		Sources:   []model.Source{{ID: "s1", Title: "Paper", Type: model.SourceAcademic}},
		SessionID: "abc",
	}}
	c := NewController(stub)

	if err := c.Send(context.Background(), "what is RAG?"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "what is RAG?" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].Role != model.RoleAssistant || !msgs[1].HasSources() {
		t.Errorf("second message = %+v", msgs[1])
	}
	if c.SessionID() != "abc" {
		t.Errorf("SessionID = %q, want abc", c.SessionID())
	}
	if c.InFlight() {
		t.Error("InFlight should be false after Send returns")
	}
}

func TestSendFailureAppendsApology(t *testing.T) {
	stub := &stubSender{err: api.ErrUnavailable}
	c := NewController(stub)

	if err := c.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send should not propagate the backend error, got %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[1].Content != ApologyMessage {
		t.Errorf("assistant message = %q, want apology", msgs[1].Content)
	}
	if msgs[1].HasSources() {
		t.Error("apology must carry no sources")
	}
	if c.SessionID() != "" {
		t.Errorf("SessionID = %q after failure, want empty", c.SessionID())
	}
}

func TestSendEmptyInputIsNoOp(t *testing.T) {
	stub := &stubSender{resp: &api.SendResponse{Message: "x"}}
	c := NewController(stub)

	for _, input := range []string{"", "   ", "\n\t "} {
		err := c.Send(context.Background(), input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Send(%q) = %v, want ErrEmptyInput", input, err)
		}
	}

	if len(c.Messages()) != 0 {
		t.Error("empty input must not change the transcript")
	}
	if stub.callCount() != 0 {
		t.Error("empty input must not reach the backend")
	}
}

func TestSendWhileInFlightIsNoOp(t *testing.T) {
	block := make(chan struct{})
	stub := &stubSender{
		resp:  &api.SendResponse{Message: "answer", SessionID: "abc"},
		block: block,
	}
	c := NewController(stub)

	done := make(chan error, 1)
	go func() {
		done <- c.Send(context.Background(), "first")
	}()

	// Wait for the first send to be in flight.
	for !c.InFlight() {
		time.Sleep(time.Millisecond)
	}

	err := c.Send(context.Background(), "second")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("re-entrant Send = %v, want ErrBusy", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first Send: %v", err)
	}

	// Only the first send's user message and reply exist.
	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "first" {
		t.Errorf("user message = %q", msgs[0].Content)
	}
	if stub.callCount() != 1 {
		t.Errorf("backend called %d times, want 1", stub.callCount())
	}
}

func TestOptimisticAppendIsSynchronous(t *testing.T) {
	block := make(chan struct{})
	stub := &stubSender{
		resp:  &api.SendResponse{Message: "answer"},
		block: block,
	}
	c := NewController(stub)

	done := make(chan struct{})
	go func() {
		c.Send(context.Background(), "question")
		close(done)
	}()

	// While the request is outstanding the user message is already visible.
	for !c.InFlight() {
		time.Sleep(time.Millisecond)
	}
	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Content != "question" {
		t.Errorf("mid-flight messages = %+v, want the optimistic user message", msgs)
	}

	close(block)
	<-done
}

func TestSessionIDAdoptedOnce(t *testing.T) {
	stub := &stubSender{resp: &api.SendResponse{Message: "a1", SessionID: "abc"}}
	c := NewController(stub)

	if err := c.Send(context.Background(), "q1"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Backend answers with a different id; the held one must survive.
	stub.mu.Lock()
	stub.resp = &api.SendResponse{Message: "a2", SessionID: "other"}
	stub.mu.Unlock()

	if err := c.Send(context.Background(), "q2"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if c.SessionID() != "abc" {
		t.Errorf("SessionID = %q, want abc", c.SessionID())
	}

	// And the held id is forwarded on follow-ups.
	if stub.lastSID != "abc" {
		t.Errorf("forwarded session_id = %q, want abc", stub.lastSID)
	}
}

func TestStartNewIsIdempotent(t *testing.T) {
	stub := &stubSender{resp: &api.SendResponse{Message: "a", SessionID: "abc"}}
	c := NewController(stub)

	if err := c.Send(context.Background(), "q"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	c.StartNew()
	c.StartNew()

	if len(c.Messages()) != 0 {
		t.Error("expected empty transcript after StartNew")
	}
	if c.SessionID() != "" {
		t.Errorf("SessionID = %q after StartNew, want empty", c.SessionID())
	}

	// A fresh conversation can adopt a new id.
	stub.mu.Lock()
	stub.resp = &api.SendResponse{Message: "a2", SessionID: "next"}
	stub.mu.Unlock()
	if err := c.Send(context.Background(), "q2"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if c.SessionID() != "next" {
		t.Errorf("SessionID = %q, want next", c.SessionID())
	}
}

func TestRestore(t *testing.T) {
	c := NewController(&stubSender{})
	c.Restore(&api.SessionDetail{
		ID:    "hist-1",
		Title: "Old research",
		Messages: []api.SessionMessage{
			{Role: "user", Content: "q"},
			{Role: "assistant", Content: "a", Sources: []model.Source{{ID: "s1"}}},
		},
	})

	if c.SessionID() != "hist-1" {
		t.Errorf("SessionID = %q, want hist-1", c.SessionID())
	}
	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[1].Role != model.RoleAssistant || !msgs[1].HasSources() {
		t.Errorf("restored assistant message = %+v", msgs[1])
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	stub := &stubSender{resp: &api.SendResponse{Message: "a"}}
	c := NewController(stub)
	c.Send(context.Background(), "q")

	msgs := c.Messages()
	msgs[0].Content = "mutated"

	if c.Messages()[0].Content != "q" {
		t.Error("mutating the returned slice must not affect the controller")
	}
}
