// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	})
}

func TestSendSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/chat/send/" {
			t.Errorf("path = %s", r.URL.Path)
		}

		var req SendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Message != "what is RAG?" {
			t.Errorf("message = %q", req.Message)
		}

		json.NewEncoder(w).Encode(SendResponse{
			Message:   "Retrieval-augmented generation...",
			SessionID: "abc",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Send(context.Background(), "what is RAG?", "")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.SessionID != "abc" {
		t.Errorf("SessionID = %q, want abc", resp.SessionID)
	}
	if resp.Message == "" {
		t.Error("expected non-empty message")
	}
}

func TestSendForwardsSessionID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SendRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.SessionID != "existing" {
			t.Errorf("session_id = %q, want existing", req.SessionID)
		}
		json.NewEncoder(w).Encode(SendResponse{Message: "ok", SessionID: "existing"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Send(context.Background(), "follow-up", "existing"); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestSendUnavailable(t *testing.T) {
	// Point at a closed server so the dial fails.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.Send(context.Background(), "hello", "")
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	if !IsUnavailable(err) {
		t.Errorf("IsUnavailable = false for %v", err)
	}
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
		wantMsg  string
	}{
		{"not found", http.StatusNotFound, `{"error": "Session not found"}`, ErrTypeNotFound, "Session not found"},
		{"bad request", http.StatusBadRequest, `{"error": "Message is required"}`, ErrTypeBadRequest, "Message is required"},
		{"server error", http.StatusInternalServerError, `{}`, ErrTypeServer, "backend returned Internal Server Error"},
		{"unexpected", http.StatusTeapot, ``, ErrTypeUnknown, "backend returned I'm a teapot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.Send(context.Background(), "x", "")
			if err == nil {
				t.Fatal("expected error")
			}

			var ce *ClientError
			if !errors.As(err, &ce) {
				t.Fatalf("error is %T, want *ClientError", err)
			}
			if ce.Type != tt.wantType {
				t.Errorf("Type = %d, want %d", ce.Type, tt.wantType)
			}
			if ce.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", ce.Message, tt.wantMsg)
			}
			if ce.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", ce.StatusCode, tt.status)
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Send(context.Background(), "x", "")
	if err == nil {
		t.Fatal("expected error for malformed body")
	}

	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeInvalidResponse {
		t.Errorf("error = %v, want invalid-response type", err)
	}
}

func TestResearchSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/research/search/" {
			t.Errorf("path = %s", r.URL.Path)
		}

		var req ResearchSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "vector databases" {
			t.Errorf("query = %q", req.Query)
		}
		if req.Filters["source_type"] != "academic" {
			t.Errorf("filters = %v", req.Filters)
		}

		w.Write([]byte(`{"results": [{"id": "src-1", "title": "ANN indexes", "url": "https://example.test/ann", "source_type": "academic", "relevance_score": 0.91}], "total": 1}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.ResearchSearch(context.Background(), "vector databases", map[string]string{"source_type": "academic"})
	if err != nil {
		t.Fatalf("ResearchSearch: %v", err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Results[0].ID != "src-1" || resp.Results[0].Relevance != 0.91 {
		t.Errorf("result = %+v", resp.Results[0])
	}
}

func TestResearchSearchOmitsNilFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := raw["filters"]; ok {
			t.Error("filters key present for nil filters")
		}
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.ResearchSearch(context.Background(), "anything", nil); err != nil {
		t.Fatalf("ResearchSearch: %v", err)
	}
}

func TestResearchSources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/research/sources/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "graph RAG" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte(`{"sources": [{"id": "src-2", "title": "GraphRAG survey", "source_type": "industry"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	sources, err := client.ResearchSources(context.Background(), "graph RAG")
	if err != nil {
		t.Fatalf("ResearchSources: %v", err)
	}
	if len(sources) != 1 || sources[0].ID != "src-2" {
		t.Errorf("sources = %+v", sources)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/health/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", Message: "Chat service is running"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if !health.Healthy() {
		t.Errorf("Healthy() = false for status %q", health.Status)
	}
}

func TestDashboardEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/dashboard/stats/":
			w.Write([]byte(`{"research_sessions": 12, "messages_exchanged": 240, "sources_cited": 85, "research_hours": 6.5}`))
		case "/chat/dashboard/sessions/":
			w.Write([]byte(`{"sessions": [{"id": "s1", "title": "RAG pipelines", "messages": 8, "lastActive": "2h ago", "topics": ["rag"], "status": "active"}]}`))
		case "/chat/dashboard/insights/":
			w.Write([]byte(`{"insights": [{"title": "Deep dive", "description": "You asked about embeddings 5 times", "action": "Explore"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	stats, err := client.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.ResearchSessions != 12 || stats.ResearchHours != 6.5 {
		t.Errorf("stats = %+v", stats)
	}

	sessions, err := client.DashboardSessions(ctx)
	if err != nil {
		t.Fatalf("DashboardSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "s1" {
		t.Errorf("sessions = %+v", sessions)
	}

	insights, err := client.DashboardInsights(ctx)
	if err != nil {
		t.Fatalf("DashboardInsights: %v", err)
	}
	if len(insights) != 1 || insights[0].Title != "Deep dive" {
		t.Errorf("insights = %+v", insights)
	}
}

func TestDeleteSession(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"message": "Session deleted"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.DeleteSession(context.Background(), "sess-9"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
	if gotPath != "/chat/sessions/sess-9/delete/" {
		t.Errorf("path = %s", gotPath)
	}

	if err := client.DeleteDashboardSession(context.Background(), "sess-9"); err != nil {
		t.Fatalf("DeleteDashboardSession: %v", err)
	}
	if gotPath != "/chat/dashboard/sessions/sess-9/delete/" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestGetSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/sessions/abc/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"id": "abc", "title": "Quantum", "message_count": 2, "messages": [{"id": "m1", "role": "user", "content": "hi"}, {"id": "m2", "role": "assistant", "content": "hello"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	session, err := client.GetSession(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if session.ID != "abc" || len(session.Messages) != 2 {
		t.Errorf("session = %+v", session)
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test/api/"})
	if client.BaseURL() != "http://example.test/api" {
		t.Errorf("BaseURL = %q", client.BaseURL())
	}
}
