package models

import "time"

// DocumentInfo describes one stored source document.
type DocumentInfo struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Type     string    `json:"type"` // lower-cased extension, including the dot
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}
