// ABOUTME: HTTP client for syncing locked journal entries to a remote API.
// ABOUTME: Pushes entries after lock and lists remote entries when sync is configured.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/daylock/internal/models"
)

// RemoteClient syncs journal entries with a remote API.
type RemoteClient struct {
	apiURL string
	apiKey string
	teamID string
	client *http.Client
}

// NewRemoteClient creates a remote client with the given credentials.
func NewRemoteClient(apiURL, apiKey, teamID string) *RemoteClient {
	return &RemoteClient{
		apiURL: NormalizeAPIURL(apiURL),
		apiKey: apiKey,
		teamID: teamID,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NormalizeAPIURL strips trailing slashes and a trailing /v1 from an API base URL.
func NormalizeAPIURL(apiURL string) string {
	apiURL = strings.TrimRight(apiURL, "/")
	return strings.TrimSuffix(apiURL, "/v1")
}

// remoteEntryPayload is the JSON body sent to the remote journal API.
type remoteEntryPayload struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	Date     string `json:"date"`
	Body     string `json:"body"`
	Mood     string `json:"mood,omitempty"`
	LockedAt int64  `json:"locked_at,omitempty"`
}

// remoteEntryResponse maps a single journal entry from the remote API response.
type remoteEntryResponse struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Body     string `json:"body"`
	Mood     string `json:"mood"`
	LockedAt int64  `json:"locked_at"`
}

// remoteListResponse is the top-level response envelope from GET /teams/{teamID}/journal/entries.
type remoteListResponse struct {
	Entries    []remoteEntryResponse `json:"entries"`
	TotalCount int                   `json:"total_count"`
	HasMore    bool                  `json:"has_more"`
}

// PushEntry sends a locked journal entry to the remote API.
func (r *RemoteClient) PushEntry(ctx context.Context, entry *models.JournalEntry) error {
	if !entry.Locked {
		return fmt.Errorf("refusing to sync unlocked entry for %s", entry.DayKey())
	}

	payload := remoteEntryPayload{
		ID:     entry.ID.String(),
		TeamID: r.teamID,
		Date:   entry.DayKey(),
		Body:   entry.Body,
		Mood:   entry.Mood.String(),
	}
	if entry.LockedAt != nil {
		payload.LockedAt = entry.LockedAt.UnixMilli()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+"/teams/"+r.teamID+"/journal/entries", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("remote API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// ListEntries fetches journal entries from the remote API. Remote entries are always locked.
func (r *RemoteClient) ListEntries(ctx context.Context, limit int, loc *time.Location) ([]*models.JournalEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.apiURL+"/teams/"+r.teamID+"/journal/entries", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", r.apiKey)

	q := req.URL.Query()
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	req.URL.RawQuery = q.Encode()

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("remote API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var listResp remoteListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	entries := make([]*models.JournalEntry, 0, len(listResp.Entries))
	for _, re := range listResp.Entries {
		day, err := models.ParseDayKey(re.Date, loc)
		if err != nil {
			continue
		}
		entry := &models.JournalEntry{
			Day:    day,
			Body:   re.Body,
			Locked: true,
		}
		if id, err := uuid.Parse(re.ID); err == nil {
			entry.ID = id
		}
		if mood, err := models.ParseMood(re.Mood); err == nil {
			entry.Mood = mood
		}
		// locked_at is Unix milliseconds
		if re.LockedAt > 0 {
			lockedAt := time.UnixMilli(re.LockedAt)
			entry.LockedAt = &lockedAt
			entry.CreatedAt = lockedAt
			entry.UpdatedAt = lockedAt
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
