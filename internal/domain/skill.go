package domain

import "time"

// Skill is a catalog entry referenced by technician profiles and ticket
// required_skills. Soft-deleted via IsActive.
type Skill struct {
	ID          int64
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
