//go:build e2e
// +build e2e

// Package e2e_test exercises a running server over HTTP. Point E2E_BASE_URL
// at a server started with the bundled reference dataset.
package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const httpTimeout = 30 * time.Second

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func baseURL() string { return strings.TrimRight(getenv("E2E_BASE_URL", "http://localhost:8080"), "/") }

// waitForApp skips the test when the server never becomes healthy.
func waitForApp(t *testing.T, client *http.Client) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL() + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Skipf("server at %s is not reachable", baseURL())
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out), string(b))
	return out
}

func TestE2E_RolesAndScreen(t *testing.T) {
	client := &http.Client{Timeout: httpTimeout}
	waitForApp(t, client)

	resp, err := client.Get(baseURL() + "/v1/roles")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	roles := decode(t, resp)
	list, _ := roles["roles"].([]any)
	require.NotEmpty(t, list, "reference dataset has no roles")
	role, _ := list[0].(string)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("job_role", role))
	fw, err := mw.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("Experienced engineer. Python, SQL, communication, teamwork and leadership."))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL()+"/v1/screen", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err = client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode(t, resp)
	score, ok := res["matchScore"].(float64)
	require.True(t, ok, "matchScore missing: %#v", res)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
	assert.NotEmpty(t, res["recommendation"])
}

func TestE2E_Rank(t *testing.T) {
	client := &http.Client{Timeout: httpTimeout}
	waitForApp(t, client)

	payload := `{"description":"Python is required. SQL preferred. Communication is essential for this role.","top_n":5}`
	resp, err := client.Post(baseURL()+"/v1/rank", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode(t, resp)
	assert.Contains(t, res, "techSkills")
	assert.Contains(t, res, "softSkills")
	assert.Contains(t, res, "breakdown")
}

func TestE2E_RankRejectsBadThreshold(t *testing.T) {
	client := &http.Client{Timeout: httpTimeout}
	waitForApp(t, client)

	resp, err := client.Post(baseURL()+"/v1/rank", "application/json", strings.NewReader(`{"description":"python developer wanted","threshold":2}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
