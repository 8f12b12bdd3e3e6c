package domain

import "time"

// AvailabilityStatus enumerates technician presence states.
type AvailabilityStatus string

const (
	AvailabilityAvailable  AvailabilityStatus = "available"
	AvailabilityBusy       AvailabilityStatus = "busy"
	AvailabilityInMeeting  AvailabilityStatus = "in_meeting"
	AvailabilityOnBreak    AvailabilityStatus = "on_break"
	AvailabilityEndOfShift AvailabilityStatus = "end_of_shift"
	AvailabilityFocusMode  AvailabilityStatus = "focus_mode"
)

// Valid reports whether the status is one of the six enumerated values.
func (a AvailabilityStatus) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityInMeeting,
		AvailabilityOnBreak, AvailabilityEndOfShift, AvailabilityFocusMode:
		return true
	}
	return false
}

// AcceptsNewWork reports whether tickets may be auto-routed to a technician
// in this state.
func (a AvailabilityStatus) AcceptsNewWork() bool {
	return a == AvailabilityAvailable
}

// SkillLevel enumerates seniority tiers.
type SkillLevel string

const (
	SkillLevelJunior SkillLevel = "junior"
	SkillLevelMid    SkillLevel = "mid"
	SkillLevelSenior SkillLevel = "senior"
	SkillLevelExpert SkillLevel = "expert"
)

// Valid reports whether the level is a known tier.
func (s SkillLevel) Valid() bool {
	switch s {
	case SkillLevelJunior, SkillLevelMid, SkillLevelSenior, SkillLevelExpert:
		return true
	}
	return false
}

// TicketCapacity returns how many concurrently open tickets a technician of
// this level is expected to carry. Workload is the open-ticket count as a
// percentage of this capacity.
func (s SkillLevel) TicketCapacity() int {
	switch s {
	case SkillLevelExpert:
		return 10
	case SkillLevelSenior:
		return 8
	case SkillLevelMid:
		return 6
	default:
		return 4
	}
}

// SkillRating pairs a catalog skill with a proficiency percentage in [0,100].
type SkillRating struct {
	SkillID    int64 `json:"skill_id"`
	Percentage int   `json:"percentage"`
}

// Technician models capability and capacity state for one technician-role
// user. Exactly one Technician exists per owning User.
type Technician struct {
	ID                   int64
	UserID               int64
	Name                 string
	AssignedTicketsTotal int
	AssignedTickets      []int64
	Skills               []SkillRating
	Workload             int
	AvailabilityStatus   AvailabilityStatus
	SkillLevel           SkillLevel
	Specialization       *string
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasAssignment reports whether ticketID is already in the denormalized
// assignment list.
func (t *Technician) HasAssignment(ticketID int64) bool {
	for _, id := range t.AssignedTickets {
		if id == ticketID {
			return true
		}
	}
	return false
}
