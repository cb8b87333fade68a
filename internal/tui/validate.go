// ABOUTME: Connection validation for the remote journal sync API.
// ABOUTME: Tests credentials by listing a single journal entry through the sync client.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/daylock/internal/storage"
)

// validateTimeout bounds a single validation attempt.
const validateTimeout = 10 * time.Second

// ValidateConnection tests the API connection by listing one entry with the given credentials.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL, apiKey, teamID string) error {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	client := storage.NewRemoteClient(apiURL, apiKey, teamID)
	if _, err := client.ListEntries(ctx, 1, time.UTC); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}
