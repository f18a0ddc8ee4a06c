package model

import "time"

// Timestamps carries the audit columns shared by every entity.  CreatedAt
// is set once when the entity is first persisted; UpdatedAt is refreshed by
// every mutating method and never by reads.
//
// Fields:
//
//	CreatedAt – creation timestamp (UTC).
//	UpdatedAt – last mutation timestamp (UTC).
type Timestamps struct {
	CreatedAt time.Time // <entity>.created_at
	UpdatedAt time.Time // <entity>.updated_at
}

// Stamp initialises both timestamps to now.  It is called by the booking
// manager and the admin handlers right before an insert.
func (t *Timestamps) Stamp(now time.Time) {
	now = now.UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Touch refreshes UpdatedAt.  Every mutating method on an entity calls it.
func (t *Timestamps) Touch(now time.Time) {
	t.UpdatedAt = now.UTC()
}
