package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSerialNumber(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		attendees []*Attendee
		want      int
	}{
		{
			name:      "empty list starts at 1",
			attendees: nil,
			want:      1,
		},
		{
			name: "dense list",
			attendees: []*Attendee{
				{UserID: "u1", SerialNumber: 1, JoinedAt: now},
				{UserID: "u2", SerialNumber: 2, JoinedAt: now},
				{UserID: "u3", SerialNumber: 3, JoinedAt: now},
			},
			want: 4,
		},
		{
			name: "gaps after leaves do not get reused",
			attendees: []*Attendee{
				{UserID: "u1", SerialNumber: 1, JoinedAt: now},
				{UserID: "u5", SerialNumber: 5, JoinedAt: now},
			},
			want: 6,
		},
		{
			name: "max not at the end",
			attendees: []*Attendee{
				{UserID: "u7", SerialNumber: 7, JoinedAt: now},
				{UserID: "u2", SerialNumber: 2, JoinedAt: now},
			},
			want: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSerialNumber(tt.attendees))
		})
	}
}

func TestIsFull(t *testing.T) {
	assert.False(t, IsFull(0, 1))
	assert.False(t, IsFull(4, 5))
	assert.True(t, IsFull(5, 5))
	assert.True(t, IsFull(6, 5))
}

func TestValidateCapacityChange(t *testing.T) {
	require.NoError(t, ValidateCapacityChange(3, 3))
	require.NoError(t, ValidateCapacityChange(3, 10))

	err := ValidateCapacityChange(5, 4)
	require.Error(t, err)
	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 5, capErr.Attendees)
	assert.Contains(t, err.Error(), "(5)")
}

func TestEventHasAttendee(t *testing.T) {
	e := &Event{Attendees: []*Attendee{
		{UserID: "u1", SerialNumber: 1},
		{UserID: "u2", SerialNumber: 2},
	}}
	assert.True(t, e.HasAttendee("u2"))
	assert.False(t, e.HasAttendee("u3"))
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryMeetup.Valid())
	assert.True(t, CategoryOther.Valid())
	assert.False(t, Category("Webinar").Valid())
	assert.False(t, Category("").Valid())
}

func TestSortOrderValid(t *testing.T) {
	assert.True(t, SortRecency.Valid())
	assert.True(t, SortRemainingCapacity.Valid())
	assert.False(t, SortOrder("alphabetical").Valid())
}
