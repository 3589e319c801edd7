// Package domain holds DTOs and contracts for the packages service
package domain

import "time"

// Metadata is the durable identity of one ingested package
type Metadata struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HistoryEntry is one append-only audit record; never mutated or deleted
type HistoryEntry struct {
	PackageID string    `json:"package_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	At        time.Time `json:"at"`
}

// history actions
const (
	ActionCreate = "CREATE"
	ActionRate   = "RATE"
)
