package database

import (
	"fmt"
	"time"
)

// Article is the canonical storage record, unique on URL. Optional provider
// fields are pointers so NULLs round-trip unchanged; Summary stays nil when
// summarization was unavailable, which is a terminal state, not a pending one.
type Article struct {
	URL         string
	Title       string
	PublishedAt time.Time
	Category    string
	SourceID    *string
	SourceName  *string
	Author      *string
	Description *string
	URLToImage  *string
	Content     *string
	Summary     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StorageError wraps a failed store operation so the orchestrator can record
// it against the current category and continue with the next.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
