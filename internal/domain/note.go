package domain

import (
	"fmt"
	"time"
)

// NoteCategory labels the kind of audit note attached to a dispatch.
type NoteCategory string

const (
	NoteCategoryReview       NoteCategory = "Admin Review"
	NoteCategoryDispatched   NoteCategory = "Dispatched"
	NoteCategoryStatusUpdate NoteCategory = "Status Update"
	NoteCategoryNotification NoteCategory = "Notification Sent"
)

// DispatchNote is an immutable audit annotation. Notes are only ever appended;
// the sequence for a record is the durable justification for its transitions.
type DispatchNote struct {
	ID         string
	DispatchID string
	Category   NoteCategory
	Author     string
	Body       string
	CreatedAt  time.Time
}

// Line renders the note the way operators see it in the dispatch log.
func (n DispatchNote) Line() string {
	return fmt.Sprintf("[%s] %s", n.Category, n.Body)
}
