package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTwilioSender(serverURL string) *TwilioSender {
	s := NewTwilioSender("AC123", "secret", "+12025550100")
	s.BaseURL = serverURL
	return s
}

func TestTwilioSendPostsForm(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sender := newTestTwilioSender(server.URL)
	require.NoError(t, sender.Send(context.Background(), "+12025550123", "hello"))

	assert.Equal(t, "/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, "+12025550123", gotTo)
	assert.Equal(t, "+12025550100", gotFrom)
	assert.Equal(t, "hello", gotBody)
}

func TestTwilioSendRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sender := newTestTwilioSender(server.URL)
	require.NoError(t, sender.Send(context.Background(), "+12025550123", "hello"))
	assert.EqualValues(t, 2, calls.Load())
}

func TestTwilioSendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid To number"}`))
	}))
	defer server.Close()

	sender := newTestTwilioSender(server.URL)
	err := sender.Send(context.Background(), "bogus", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid To number")
	assert.EqualValues(t, 1, calls.Load())
}

func TestTwilioSendGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sender := newTestTwilioSender(server.URL)
	err := sender.Send(context.Background(), "+12025550123", "hello")
	require.Error(t, err)
	assert.EqualValues(t, maxSendAttempts, calls.Load())
}

func TestTwilioSendHonorsContextDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	sender := newTestTwilioSender(server.URL)
	err := sender.Send(ctx, "+12025550123", "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
