package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketCapacity(t *testing.T) {
	assert.Equal(t, 4, SkillLevelJunior.TicketCapacity())
	assert.Equal(t, 6, SkillLevelMid.TicketCapacity())
	assert.Equal(t, 8, SkillLevelSenior.TicketCapacity())
	assert.Equal(t, 10, SkillLevelExpert.TicketCapacity())
	assert.Equal(t, 4, SkillLevel("").TicketCapacity())
}

func TestAvailabilityStatus(t *testing.T) {
	for _, status := range []AvailabilityStatus{
		AvailabilityAvailable, AvailabilityBusy, AvailabilityInMeeting,
		AvailabilityOnBreak, AvailabilityEndOfShift, AvailabilityFocusMode,
	} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, AvailabilityStatus("away").Valid())

	assert.True(t, AvailabilityAvailable.AcceptsNewWork())
	assert.False(t, AvailabilityBusy.AcceptsNewWork())
	assert.False(t, AvailabilityFocusMode.AcceptsNewWork())
}

func TestHasAssignment(t *testing.T) {
	tech := &Technician{AssignedTickets: []int64{3, 7, 11}}

	assert.True(t, tech.HasAssignment(7))
	assert.False(t, tech.HasAssignment(4))
	assert.False(t, (&Technician{}).HasAssignment(1))
}
