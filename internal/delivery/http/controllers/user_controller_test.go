package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserController_GetMe(t *testing.T) {
	tests := []struct {
		name          string
		contextUserID string
		fakeUser      *domain.User
		fakeErr       error
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success",
			contextUserID: "user-1",
			fakeUser:      &domain.User{ID: "user-1", Name: "Ada", Email: "ada@example.com"},
			wantStatus:    http.StatusOK,
		},
		{
			name:         "no user in context",
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:          "user not found",
			contextUserID: "user-1",
			fakeErr:       domain.ErrUserNotFound,
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
		{
			name:          "service error",
			contextUserID: "user-1",
			fakeErr:       assert.AnError,
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{getUser: tt.fakeUser, getErr: tt.fakeErr}
			ctrl := NewUserController(discardLogger(), fake)

			rr := httptest.NewRecorder()
			ctrl.GetMe(rr, authedRequest(http.MethodGet, "http://test/users/me", "", tt.contextUserID))

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var u domain.User
				require.NoError(t, json.Unmarshal(dataBytes, &u))
				assert.Equal(t, "user-1", u.ID)
				assert.NotContains(t, rr.Body.String(), "password_hash")
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestUserController_UpdateMe(t *testing.T) {
	t.Run("merges only the provided fields", func(t *testing.T) {
		fake := &fakeUserService{
			getUser: &domain.User{ID: "user-1", Name: "Ada", Phone: "+111", Location: "Berlin"},
			updated: &domain.User{ID: "user-1", Name: "Ada L.", Phone: "+111", Location: "Berlin"},
		}
		ctrl := NewUserController(discardLogger(), fake)

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "http://test/users/me", `{"name":"Ada L."}`, "user-1")
		ctrl.UpdateMe(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, fake.lastUpdate)
		assert.Equal(t, "Ada L.", fake.lastUpdate.Name)
		// Omitted fields keep their stored values.
		assert.Equal(t, "+111", fake.lastUpdate.Phone)
		assert.Equal(t, "Berlin", fake.lastUpdate.Location)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		fake := &fakeUserService{getUser: &domain.User{ID: "user-1"}}
		ctrl := NewUserController(discardLogger(), fake)

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "http://test/users/me", `{"email":"new@example.com"}`, "user-1")
		ctrl.UpdateMe(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		ctrl := NewUserController(discardLogger(), &fakeUserService{})

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "http://test/users/me", `{"name":"x"}`, "")
		ctrl.UpdateMe(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("user not found", func(t *testing.T) {
		fake := &fakeUserService{getErr: domain.ErrUserNotFound}
		ctrl := NewUserController(discardLogger(), fake)

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "http://test/users/me", `{"name":"x"}`, "user-1")
		ctrl.UpdateMe(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUserController_ChangePassword(t *testing.T) {
	tests := []struct {
		name          string
		contextUserID string
		body          string
		fakeErr       error
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success",
			contextUserID: "user-1",
			body:          `{"current_password":"secret1","new_password":"newsecret"}`,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "missing current password",
			contextUserID: "user-1",
			body:          `{"new_password":"newsecret"}`,
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "short new password",
			contextUserID: "user-1",
			body:          `{"current_password":"secret1","new_password":"12345"}`,
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "wrong current password",
			contextUserID: "user-1",
			body:          `{"current_password":"wrong","new_password":"newsecret"}`,
			fakeErr:       domain.ErrInvalidCredentials,
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:         "no user in context",
			body:         `{"current_password":"secret1","new_password":"newsecret"}`,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:          "user not found",
			contextUserID: "user-1",
			body:          `{"current_password":"secret1","new_password":"newsecret"}`,
			fakeErr:       domain.ErrUserNotFound,
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
		{
			name:          "service error",
			contextUserID: "user-1",
			body:          `{"current_password":"secret1","new_password":"newsecret"}`,
			fakeErr:       assert.AnError,
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{changePassErr: tt.fakeErr}
			ctrl := NewUserController(discardLogger(), fake)

			rr := httptest.NewRecorder()
			req := authedRequest(http.MethodPut, "http://test/users/me/password", tt.body, tt.contextUserID)
			ctrl.ChangePassword(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "secret1", fake.lastCurrentPass)
				assert.Equal(t, "newsecret", fake.lastNewPass)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}

	t.Run("wrong current password message", func(t *testing.T) {
		fake := &fakeUserService{changePassErr: domain.ErrInvalidCredentials}
		ctrl := NewUserController(discardLogger(), fake)

		rr := httptest.NewRecorder()
		body := `{"current_password":"wrong","new_password":"newsecret"}`
		ctrl.ChangePassword(rr, authedRequest(http.MethodPut, "http://test/users/me/password", body, "user-1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "current password is incorrect", envelope.Error.Message)
	})
}

func TestUserController_DeleteMe(t *testing.T) {
	tests := []struct {
		name          string
		contextUserID string
		fakeUser      *domain.User
		fakeErr       error
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success returns the deleted user",
			contextUserID: "user-1",
			fakeUser:      &domain.User{ID: "user-1", Name: "Ada", Email: "ada@example.com"},
			wantStatus:    http.StatusOK,
		},
		{
			name:         "no user in context",
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:          "user not found",
			contextUserID: "user-1",
			fakeErr:       domain.ErrUserNotFound,
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
		{
			name:          "service error",
			contextUserID: "user-1",
			fakeErr:       assert.AnError,
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{deleted: tt.fakeUser, deleteErr: tt.fakeErr}
			ctrl := NewUserController(discardLogger(), fake)

			rr := httptest.NewRecorder()
			ctrl.DeleteMe(rr, authedRequest(http.MethodDelete, "http://test/users/me", "", tt.contextUserID))

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "user-1", fake.deletedUserID)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var u domain.User
				require.NoError(t, json.Unmarshal(dataBytes, &u))
				assert.Equal(t, "Ada", u.Name)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}
