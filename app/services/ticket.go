package services

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var issued atomic.Int64

// Ticket is a per-call value. Bound transient, so every resolve issues a
// new one.
type Ticket struct {
	ID     uuid.UUID
	Serial int64
	Label  string
}

// NewTicket issues the next ticket. label is optional.
func NewTicket(label string) *Ticket {
	return &Ticket{ID: uuid.New(), Serial: issued.Add(1), Label: label}
}
