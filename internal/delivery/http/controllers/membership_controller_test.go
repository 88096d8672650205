package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMembershipService implements domain.MembershipService for handler tests.
type fakeMembershipService struct {
	event     *domain.Event
	attendees []*domain.Attendee
	events    []*domain.Event
	err       error
}

func (f *fakeMembershipService) Join(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeMembershipService) Leave(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeMembershipService) ListAttendees(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.attendees, nil
}

func (f *fakeMembershipService) ListAttendingEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func TestMembershipController_JoinEvent(t *testing.T) {
	tests := []struct {
		name         string
		eventID      string
		userID       string
		fake         *fakeMembershipService
		wantStatus   int
		wantBodyCode string
		wantMessage  string
	}{
		{
			name:    "success",
			eventID: testEventID,
			userID:  "user-1",
			fake: &fakeMembershipService{
				event: &domain.Event{
					ID: testEventID,
					Attendees: []*domain.Attendee{
						{UserID: "user-1", Name: "Ada", Mail: "ada@example.com", SerialNumber: 1},
					},
				},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:         "invalid event id",
			eventID:      "nope",
			userID:       "user-1",
			fake:         &fakeMembershipService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "no user in context",
			eventID:      testEventID,
			fake:         &fakeMembershipService{},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "event not found",
			eventID:      testEventID,
			userID:       "user-1",
			fake:         &fakeMembershipService{err: domain.ErrNotFound},
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
		{
			name:         "already joined",
			eventID:      testEventID,
			userID:       "user-1",
			fake:         &fakeMembershipService{err: domain.ErrAlreadyJoined},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
			wantMessage:  "you have already joined this event",
		},
		{
			name:         "event full",
			eventID:      testEventID,
			userID:       "user-1",
			fake:         &fakeMembershipService{err: domain.ErrEventFull},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
			wantMessage:  "event is full",
		},
		{
			name:         "service error",
			eventID:      testEventID,
			userID:       "user-1",
			fake:         &fakeMembershipService{err: assert.AnError},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewMembershipController(discardLogger(), tt.fake)

			req := authedRequest(http.MethodPut, "http://test/events/"+tt.eventID+"/join", "", tt.userID)
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()
			ctrl.JoinEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var e domain.Event
				require.NoError(t, json.Unmarshal(dataBytes, &e))
				require.Len(t, e.Attendees, 1)
				assert.Equal(t, 1, e.Attendees[0].SerialNumber)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, envelope.Error.Message)
			}
		})
	}
}

func TestMembershipController_LeaveEvent(t *testing.T) {
	tests := []struct {
		name         string
		fake         *fakeMembershipService
		wantStatus   int
		wantBodyCode string
		wantMessage  string
	}{
		{
			name:       "success",
			fake:       &fakeMembershipService{event: &domain.Event{ID: testEventID, Attendees: []*domain.Attendee{}}},
			wantStatus: http.StatusOK,
		},
		{
			name:         "not joined",
			fake:         &fakeMembershipService{err: domain.ErrNotJoined},
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
			wantMessage:  "you have not joined this event",
		},
		{
			name:         "event not found",
			fake:         &fakeMembershipService{err: domain.ErrNotFound},
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewMembershipController(discardLogger(), tt.fake)

			req := authedRequest(http.MethodPut, "http://test/events/"+testEventID+"/leave", "", "user-1")
			req.SetPathValue("eventID", testEventID)
			rr := httptest.NewRecorder()
			ctrl.LeaveEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBodyCode != "" {
				envelope := decodeEnvelope(t, rr)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, envelope.Error.Message)
				}
			}
		})
	}
}

func TestMembershipController_ListAttendees(t *testing.T) {
	t.Run("returns attendees in join order", func(t *testing.T) {
		joined := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		fake := &fakeMembershipService{
			attendees: []*domain.Attendee{
				{UserID: "user-1", Name: "Ada", Mail: "ada@example.com", SerialNumber: 1, JoinedAt: joined},
				{UserID: "user-2", Name: "Linus", Mail: "linus@example.com", SerialNumber: 2, JoinedAt: joined},
			},
		}
		ctrl := NewMembershipController(discardLogger(), fake)

		req := authedRequest(http.MethodGet, "http://test/events/"+testEventID+"/attendees", "", "user-1")
		req.SetPathValue("eventID", testEventID)
		rr := httptest.NewRecorder()
		ctrl.ListAttendees(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var attendees []*domain.Attendee
		require.NoError(t, json.Unmarshal(dataBytes, &attendees))
		require.Len(t, attendees, 2)
		assert.Equal(t, "Ada", attendees[0].Name)
		assert.Equal(t, 2, attendees[1].SerialNumber)
	})

	t.Run("event not found", func(t *testing.T) {
		ctrl := NewMembershipController(discardLogger(), &fakeMembershipService{err: domain.ErrNotFound})

		req := authedRequest(http.MethodGet, "http://test/events/"+testEventID+"/attendees", "", "user-1")
		req.SetPathValue("eventID", testEventID)
		rr := httptest.NewRecorder()
		ctrl.ListAttendees(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMembershipController_ListAttendingEvents(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeMembershipService{events: []*domain.Event{{ID: testEventID}}}
		ctrl := NewMembershipController(discardLogger(), fake)

		rr := httptest.NewRecorder()
		ctrl.ListAttendingEvents(rr, authedRequest(http.MethodGet, "http://test/events/attending", "", "user-1"))

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		ctrl := NewMembershipController(discardLogger(), &fakeMembershipService{})

		rr := httptest.NewRecorder()
		ctrl.ListAttendingEvents(rr, authedRequest(http.MethodGet, "http://test/events/attending", "", ""))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
