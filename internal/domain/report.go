package domain

import "time"

// ReportFile is a generated spreadsheet held in memory.
type ReportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportArchive points at a report stored in object storage.
type ReportArchive struct {
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
