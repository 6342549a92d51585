//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehabtrack/rehabtrack/internal/auth"
)

func (s *IntegrationTestSuite) TestRegisterLoginLogout() {
	ctx := context.Background()
	t := s.T()

	registered := registerUser(ctx, t, auth.RolePatient)
	assert.Equal(t, auth.RolePatient, registered.User.Role)

	status, _ := doRequest(ctx, t, http.MethodPost, "/auth/register", "", auth.RegisterRequest{
		Email:    registered.User.Email,
		Password: testPassword,
		Name:     "again",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, loggedIn := login(ctx, t, registered.User.Email)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, registered.User.Sub, loggedIn.User.Sub)

	status, respBytes := doRequest(ctx, t, http.MethodGet, "/auth/me", loggedIn.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var me auth.UserPayload
	require.NoError(t, json.Unmarshal(respBytes, &me))
	assert.Equal(t, registered.User.Email, me.Email)

	status, _ = doRequest(ctx, t, http.MethodPost, "/auth/logout", loggedIn.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)

	// revoked, while the token from registration stays valid
	status, _ = doRequest(ctx, t, http.MethodGet, "/auth/me", loggedIn.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = doRequest(ctx, t, http.MethodGet, "/auth/me", registered.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestLoginWrongPassword() {
	ctx := context.Background()
	t := s.T()

	registered := registerUser(ctx, t, auth.RoleClinician)

	status, _ := doRequest(ctx, t, http.MethodPost, "/auth/login", "", auth.LoginRequest{
		Email:    registered.User.Email,
		Password: "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestProtectedRoutesNeedToken() {
	ctx := context.Background()
	t := s.T()

	for _, path := range []string{"/patients", "/sessions", "/analysis/global", "/auth/me"} {
		status, _ := doRequest(ctx, t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}

	status, _ := doRequest(ctx, t, http.MethodGet, "/sessions", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
