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

	"github.com/stretchr/testify/require"

	"github.com/2beens/loadtrack/internal/auth"
	"github.com/2beens/loadtrack/internal/middleware"
)

type loginResponse struct {
	Token string `json:"token"`
}

func doLogin(ctx context.Context, t *testing.T, client *http.Client) string {
	loginReqJson, err := json.Marshal(auth.Credentials{
		Username: testUsername,
		Password: testPassword,
	})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(loginReqJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var loginResp loginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)

	return loginResp.Token
}

func newAuthedRequest(ctx context.Context, t *testing.T, method, path, token string, body []byte) *http.Request {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthTokenHeader, token)
	}
	return req
}
