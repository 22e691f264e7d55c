package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verilens/verilens/internal/common"
)

func newClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(url, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHTTPClient_UnauthorizedMapsToSentinel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	_, err := c.UserHistory(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestHTTPClient_NetworkFailureMapsToUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close() // immediately, so the dial fails

	c := newClient(t, ts.URL)
	_, err := c.CheckSession(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestHTTPClient_DeadlineMapsToTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.AnalyzeText(ctx, TextAnalysisRequest{Text: "hello", Mode: "hybrid"})
	require.ErrorIs(t, err, common.ErrTimeout)
	require.NotErrorIs(t, err, common.ErrUnavailable)
}

func TestHTTPClient_RemoteErrorCarriesBackendMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	_, err := c.SystemStatus(context.Background())

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusInternalServerError, remote.StatusCode)
	require.Equal(t, "model not loaded", remote.Message)
}

func TestHTTPClient_LoginAndSessionCookie(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok"})
			_, _ = w.Write([]byte(`{"message":"Login successful","username":"alice","is_admin":true}`))
		case "/user-history":
			cookie, err := r.Cookie("session")
			if err != nil || cookie.Value != "tok" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"analyses":[
				{"id":1,"title":"a","verdict":"fake","confidence":0.9,"created_at":"2026-01-02 10:30:00"}
			],"total":1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	ctx := context.Background()

	info, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.True(t, info.Authenticated)
	require.Equal(t, "alice", info.Username)
	require.True(t, info.IsAdmin)

	records, err := c.UserHistory(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "fake", records[0].Verdict)
	require.Equal(t, 2026, records[0].Timestamp.Year())
}

func TestHTTPClient_LoginInvalidCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	_, err := c.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.Contains(t, err.Error(), "Invalid credentials")
}

func TestParseBackendTime(t *testing.T) {
	require.False(t, parseBackendTime("2026-08-20T11:22:33Z").IsZero())
	require.False(t, parseBackendTime("2026-08-20 11:22:33").IsZero())
	require.False(t, parseBackendTime("2026-08-20").IsZero())
	require.True(t, parseBackendTime("whenever").IsZero())
}
