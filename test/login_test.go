//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/loadtrack/internal/auth"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.redisDataCleanup(ctx))

	cases := map[string]struct {
		loginReq           auth.Credentials
		expectedStatusCode int
		assertFunc         func(resp *http.Response)
	}{
		"good creds, then logout": {
			loginReq: auth.Credentials{
				Username: testUsername,
				Password: testPassword,
			},
			expectedStatusCode: http.StatusOK,
			assertFunc: func(resp *http.Response) {
				respBytes, err := io.ReadAll(resp.Body)
				require.NoError(t, err)

				var loginResp loginResponse
				require.NoError(t, json.Unmarshal(respBytes, &loginResp))
				assert.NotEmpty(t, loginResp.Token)

				sessionsResp, err := s.httpClient.Do(newAuthedRequest(ctx, t, "GET", "/sessions/list/page/1/size/10", loginResp.Token, nil))
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, sessionsResp.StatusCode)
				sessionsResp.Body.Close()

				logoutResp, err := s.httpClient.Do(newAuthedRequest(ctx, t, "GET", "/a/logout", loginResp.Token, nil))
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, logoutResp.StatusCode)
				logoutResp.Body.Close()

				afterLogout, err := s.httpClient.Do(newAuthedRequest(ctx, t, "GET", "/sessions/list/page/1/size/10", loginResp.Token, nil))
				require.NoError(t, err)
				assert.Equal(t, http.StatusUnauthorized, afterLogout.StatusCode)
				afterLogout.Body.Close()
			},
		},
		"bad password": {
			loginReq: auth.Credentials{
				Username: testUsername,
				Password: "bad-password",
			},
			expectedStatusCode: http.StatusBadRequest,
			assertFunc: func(resp *http.Response) {
				respBytes, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
			},
		},
		"bad username": {
			loginReq: auth.Credentials{
				Username: "bad-username",
				Password: testPassword,
			},
			expectedStatusCode: http.StatusBadRequest,
			assertFunc: func(resp *http.Response) {
				respBytes, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
			},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			loginReqJson, err := json.Marshal(tc.loginReq)
			require.NoError(t, err)

			req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(loginReqJson))
			require.NoError(t, err)
			req.Header.Set("User-Agent", "test-agent")
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.httpClient.Do(req)
			require.NoError(t, err)
			require.Equal(t, tc.expectedStatusCode, resp.StatusCode)
			defer resp.Body.Close()

			tc.assertFunc(resp)
		})
	}

	t.Run("rate limiting", func(t *testing.T) {
		loginReqJson, err := json.Marshal(auth.Credentials{
			Username: "test-user",
			Password: "test-pass",
		})
		require.NoError(t, err)

		// config allows 10 login attempts per minute
		require.NoError(t, s.redisDataCleanup(ctx))

		for i := 1; i <= 15; i++ {
			req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(loginReqJson))
			require.NoError(t, err)
			req.Header.Set("User-Agent", "test-agent")
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.httpClient.Do(req)
			require.NoError(t, err)

			if i <= 10 {
				require.Equal(t, http.StatusBadRequest, resp.StatusCode, "iteration: %d", i)
			} else {
				require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "iteration: %d", i)
			}

			assert.NoError(t, resp.Body.Close())
		}

		require.NoError(t, s.redisDataCleanup(ctx))
	})
}
