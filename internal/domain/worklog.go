package domain

import "time"

// WorkLog is one timestamped note on a ticket. Work logs are append-only.
type WorkLog struct {
	ID        int64
	TicketID  int64
	ActorType ActorType
	ActorID   *int64
	Note      string
	CreatedAt time.Time
}
