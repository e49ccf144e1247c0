package model

import "time"

// SlotLock is an advisory lock document guarding one (table, date, slot)
// coordinate while a reservation is being created. The _id doubles as the
// lock key, so a concurrent insert fails with a duplicate-key error. Rows
// expire via a TTL index on expires_at as a crash safety net.
type SlotLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
