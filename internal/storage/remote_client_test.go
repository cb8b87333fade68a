// ABOUTME: Tests for the remote journal sync client using an httptest server.
// ABOUTME: Covers pushing locked entries, listing, error handling, and auth header passing.
package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2389-research/daylock/internal/models"
)

func TestRemoteClientPushEntry(t *testing.T) {
	var receivedBody []byte
	var receivedAuth string
	var receivedContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/test-team-id/journal/entries" {
			t.Errorf("expected path /teams/test-team-id/journal/entries, got %s", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		receivedAuth = r.Header.Get("x-api-key")
		receivedContentType = r.Header.Get("Content-Type")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "test-api-key", "test-team-id")
	entry := entryOn(0, "Synced thoughts", true)
	entry.Mood = models.MoodGood

	if err := client.PushEntry(context.Background(), entry); err != nil {
		t.Fatalf("PushEntry error: %v", err)
	}

	if receivedAuth != "test-api-key" {
		t.Errorf("expected 'test-api-key', got %q", receivedAuth)
	}
	if receivedContentType != "application/json" {
		t.Errorf("expected 'application/json', got %q", receivedContentType)
	}

	var payload remoteEntryPayload
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("failed to unmarshal request body: %v", err)
	}
	if payload.Date != "2024-06-10" {
		t.Errorf("expected date 2024-06-10, got %q", payload.Date)
	}
	if payload.Body != "Synced thoughts" {
		t.Errorf("expected body 'Synced thoughts', got %q", payload.Body)
	}
	if payload.Mood != "good" {
		t.Errorf("expected mood 'good', got %q", payload.Mood)
	}
	if payload.TeamID != "test-team-id" {
		t.Errorf("expected team_id 'test-team-id', got %q", payload.TeamID)
	}
	if payload.LockedAt != entry.LockedAt.UnixMilli() {
		t.Errorf("expected locked_at %d, got %d", entry.LockedAt.UnixMilli(), payload.LockedAt)
	}
}

func TestRemoteClientPushRejectsDraft(t *testing.T) {
	client := NewRemoteClient("http://127.0.0.1:1", "key", "team")
	err := client.PushEntry(context.Background(), entryOn(0, "draft", false))
	if err == nil || !strings.Contains(err.Error(), "unlocked") {
		t.Fatalf("expected unlocked-entry error, got %v", err)
	}
}

func TestRemoteClientPushError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("forbidden"))
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "bad-key", "team")
	err := client.PushEntry(context.Background(), entryOn(0, "x", true))
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestRemoteClientListEntries(t *testing.T) {
	lockedAt := time.Date(2024, time.June, 9, 21, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("expected limit=5, got %q", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(remoteListResponse{
			Entries: []remoteEntryResponse{
				{ID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", Date: "2024-06-09", Body: "remote", Mood: "great", LockedAt: lockedAt.UnixMilli()},
				{ID: "bad", Date: "not-a-date", Body: "skipped"},
			},
			TotalCount: 2,
		})
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL+"/v1/", "key", "team")
	entries, err := client.ListEntries(context.Background(), 5, time.UTC)
	if err != nil {
		t.Fatalf("ListEntries error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 valid entry, got %d", len(entries))
	}

	e := entries[0]
	if e.DayKey() != "2024-06-09" || e.Body != "remote" || e.Mood != models.MoodGreat {
		t.Errorf("unexpected entry %+v", e)
	}
	if !e.Locked || e.LockedAt == nil || !e.LockedAt.Equal(lockedAt) {
		t.Errorf("expected remote entry to be locked at %v, got %+v", lockedAt, e)
	}
}

func TestRemoteClientListDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "key", "team")
	if _, err := client.ListEntries(context.Background(), 0, time.UTC); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNormalizeAPIURL(t *testing.T) {
	tests := map[string]string{
		"https://api.example.com":      "https://api.example.com",
		"https://api.example.com/":     "https://api.example.com",
		"https://api.example.com/v1":   "https://api.example.com",
		"https://api.example.com/v1//": "https://api.example.com",
	}
	for in, want := range tests {
		if got := NormalizeAPIURL(in); got != want {
			t.Errorf("NormalizeAPIURL(%q) = %q, want %q", in, got, want)
		}
	}
}
