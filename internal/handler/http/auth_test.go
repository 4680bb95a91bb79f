// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/deepguard/internal/app"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestRegister(t *testing.T) {
	alice := models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}

	tests := []struct {
		name        string
		body        string
		setup       func(d *testDeps)
		wantStatus  int
		wantMessage string
		wantToken   bool
	}{
		{
			name: "success",
			body: `{"name":"Alice","email":"alice@example.com","password":"secret1","confirmPassword":"secret1"}`,
			setup: func(d *testDeps) {
				d.auth.EXPECT().RegisterUser(gomock.Any(), models.User{Name: "Alice", Email: "alice@example.com", Password: "secret1"}).
					Return(alice, nil)
				d.auth.EXPECT().CreateToken(gomock.Any(), alice).Return(models.Token{SignedString: "jwt"}, nil)
			},
			wantStatus: http.StatusOK,
			wantToken:  true,
		},
		{
			name:        "invalid json",
			body:        `{"name":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: app.MsgInvalidDataProvided,
		},
		{
			name:        "short password",
			body:        `{"name":"Alice","email":"alice@example.com","password":"123"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: app.MsgPasswordTooShort,
		},
		{
			name:        "bad email",
			body:        `{"name":"Alice","email":"nope","password":"secret1"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: app.MsgEmailInvalid,
		},
		{
			name: "duplicate email",
			body: `{"name":"Alice","email":"alice@example.com","password":"secret1"}`,
			setup: func(d *testDeps) {
				d.auth.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).
					Return(models.User{}, &service.ValidationError{Message: app.MsgUserAlreadyExists, Err: store.ErrLoginAlreadyExists})
			},
			wantStatus:  http.StatusConflict,
			wantMessage: app.MsgUserAlreadyExists,
		},
		{
			name: "token failure",
			body: `{"name":"Alice","email":"alice@example.com","password":"secret1"}`,
			setup: func(d *testDeps) {
				d.auth.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(alice, nil)
				d.auth.EXPECT().CreateToken(gomock.Any(), alice).Return(models.Token{}, service.ErrTokenCreationFailed)
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: app.MsgInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, deps := newTestHandler(t)
			if tt.setup != nil {
				tt.setup(deps)
			}

			rr := serve(h, httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantToken {
				assert.Equal(t, "Bearer jwt", rr.Header().Get("Authorization"))

				var resp models.AuthResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, alice, resp.User)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, decodeError(t, rr))
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	h, deps := newTestHandler(t)
	demo := models.DemoUser()

	deps.auth.EXPECT().Login(gomock.Any(), models.User{Email: models.DemoUserEmail, Password: models.DemoUserPassword}).Return(demo, nil)
	deps.auth.EXPECT().CreateToken(gomock.Any(), demo).Return(models.Token{SignedString: "demo-jwt"}, nil)

	body := `{"email":"demo@example.com","password":"password123"}`
	rr := serve(h, httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bearer demo-jwt", rr.Header().Get("Authorization"))
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h, deps := newTestHandler(t)

	deps.auth.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.User{}, &service.ValidationError{Message: app.MsgInvalidEmailOrPassword, Err: service.ErrInvalidCredentials})

	body := `{"email":"nobody@example.com","password":"whatever"}`
	rr := serve(h, httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, app.MsgInvalidEmailOrPassword, decodeError(t, rr))
	assert.Empty(t, rr.Header().Get("Authorization"))
}

func TestLogout_PurgesHistory(t *testing.T) {
	h, deps := newTestHandler(t)
	deps.expectAuthorized("u1")
	deps.history.EXPECT().PurgeOnLogout(gomock.Any(), "u1").Return(nil)

	rr := serve(h, authorized(httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)))

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestLogout_PurgeFailureStillSucceeds(t *testing.T) {
	h, deps := newTestHandler(t)
	deps.expectAuthorized("u1")
	deps.history.EXPECT().PurgeOnLogout(gomock.Any(), "u1").Return(errors.New("disk full"))

	rr := serve(h, authorized(httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)))

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMe(t *testing.T) {
	h, deps := newTestHandler(t)
	deps.expectAuthorized("u1")
	deps.auth.EXPECT().GetUser(gomock.Any(), "u1").
		Return(models.User{ID: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}, nil)

	rr := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/user/me", nil)))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.User.ID)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestMe_UnknownUser(t *testing.T) {
	h, deps := newTestHandler(t)
	deps.expectAuthorized("ghost")
	deps.auth.EXPECT().GetUser(gomock.Any(), "ghost").Return(models.User{}, store.ErrNoUserWasFound)

	rr := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/user/me", nil)))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
