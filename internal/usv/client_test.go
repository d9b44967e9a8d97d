package usv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubportal/internal/apperrors"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, false,
		WithAttemptTimeout(2*time.Second),
		WithBaseDelay(time.Millisecond))
}

func TestVerify_SucceedsFirstAttempt(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/verify", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "USV-12345", body["usvNumber"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"valid": true, "memberSince": "2019-04-01"}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Verify(context.Background(), "USV-12345")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	require.NotNil(t, res.MemberSince)
	assert.Equal(t, "2019-04-01", *res.MemberSince)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}

func TestVerify_RetriesTransientFailures(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"valid": true}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Verify(context.Background(), "USV-12345")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.EqualValues(t, 3, atomic.LoadInt32(&requests), "third attempt should have succeeded")
}

func TestVerify_ExhaustsAttempts(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Verify(context.Background(), "USV-12345")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransient, apperrors.KindOf(err))
	assert.EqualValues(t, 4, atomic.LoadInt32(&requests), "1 initial attempt + 3 retries")
}

func TestVerify_NegativeAnswerIsNotRetried(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(`{"valid": false}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Verify(context.Background(), "USV-00000")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}

func TestVerify_MalformedBodyCountsAsFailure(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n == 1 {
			// missing the valid field
			w.Write([]byte(`{"status": "ok"}`))
			return
		}
		w.Write([]byte(`{"valid": true}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Verify(context.Background(), "USV-12345")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
}

func TestVerify_AttemptTimeoutIsRetryable(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		w.Write([]byte(`{"valid": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, false,
		WithAttemptTimeout(50*time.Millisecond),
		WithBaseDelay(time.Millisecond))
	res, err := client.Verify(context.Background(), "USV-12345")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&requests), int32(2))
}

func TestVerify_ContextCancelStopsRetrying(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(srv.URL).Verify(ctx, "USV-12345")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify_DryRunSkipsHTTP(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", true)
	res, err := client.Verify(context.Background(), "USV-12345")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}
