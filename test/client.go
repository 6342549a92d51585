//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/rehabtrack/rehabtrack/internal/auth"
)

const testPassword = "integration-pass"

func doRequest(ctx context.Context, t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

// registerUser registers a new user with a fresh email and returns its token response.
func registerUser(ctx context.Context, t *testing.T, role auth.Role) *auth.TokenResponse {
	t.Helper()

	status, respBytes := doRequest(ctx, t, http.MethodPost, "/auth/register", "", auth.RegisterRequest{
		Email:    fmt.Sprintf("%s@%s", gofakeit.UUID(), "rehabtrack.test"),
		Password: testPassword,
		Name:     gofakeit.Name(),
		Role:     role,
	})
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	var resp auth.TokenResponse
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	require.NotEmpty(t, resp.AccessToken)
	return &resp
}

func login(ctx context.Context, t *testing.T, email string) (int, *auth.TokenResponse) {
	t.Helper()

	status, respBytes := doRequest(ctx, t, http.MethodPost, "/auth/login", "", auth.LoginRequest{
		Email:    email,
		Password: testPassword,
	})
	if status != http.StatusOK {
		return status, nil
	}

	var resp auth.TokenResponse
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	return status, &resp
}
