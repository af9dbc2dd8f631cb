package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/planr/pkg/plan"
)

func planResponse() *plan.Plan {
	return &plan.Plan{
		Meta: plan.Meta{
			Goal:        "Launch a product",
			Model:       "llama3:latest",
			GeneratedAt: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		},
		Tasks:        []plan.Task{{ID: "T1", Title: "Do it"}},
		Dependencies: []plan.Dependency{},
		Assumptions:  []string{},
		Risks:        []plan.Risk{},
	}
}

func TestRequester_BlankGoal_NoCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	r := New(srv.URL)

	_, err := r.Submit(context.Background(), "   \t", "", "")
	assert.ErrorIs(t, err, plan.ErrBlankGoal)
	assert.Zero(t, calls.Load())
	assert.Equal(t, StateIdle, r.State())
}

func TestRequester_Success(t *testing.T) {
	var got plan.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/generate-plan", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(planResponse())
	}))
	defer srv.Close()

	r := New(srv.URL)

	p, err := r.Submit(context.Background(), "Launch a product", "2 weeks", "team of 2, limited budget")
	require.NoError(t, err)

	assert.Equal(t, "Launch a product", got.Goal)
	assert.Equal(t, "2 weeks", got.Deadline)
	assert.Equal(t, []string{"team of 2", "limited budget"}, got.Constraints)

	assert.Equal(t, "llama3:latest", p.Meta.Model)
	assert.Equal(t, StateSuccess, r.State())
}

func TestRequester_GeneratorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(plan.Error{
			Error:   "Failed to generate plan",
			Details: "model not found",
		})
	}))
	defer srv.Close()

	r := New(srv.URL)

	_, err := r.Submit(context.Background(), "Launch", "", "")
	require.Error(t, err)

	var genErr *GeneratorError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Failed to generate plan", genErr.Payload.Error)
	assert.Equal(t, "model not found", genErr.Payload.Details)
	assert.Equal(t, StateError, r.State())
}

func TestRequester_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	r := New(srv.URL)

	_, err := r.Submit(context.Background(), "Launch", "", "")
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, err.Error(), "backend is running")

	// The requester returns to an accepting state
	assert.Equal(t, StateError, r.State())
	_, err = r.Submit(context.Background(), "Launch again", "", "")
	var second *TransportError
	assert.ErrorAs(t, err, &second)
}

func TestRequester_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	r := New(srv.URL)

	_, err := r.Submit(context.Background(), "Launch", "", "")
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestRequester_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		json.NewEncoder(w).Encode(planResponse())
	}))
	defer srv.Close()

	r := New(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := r.Submit(context.Background(), "Launch", "", "")
		done <- err
	}()

	<-started
	assert.Equal(t, StateInFlight, r.State())

	// A second submit while in flight is rejected
	_, err := r.Submit(context.Background(), "Another goal", "", "")
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateSuccess, r.State())
}

func TestRequester_TimeoutIsRecoverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels the request context; otherwise srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	r := New(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Submit(ctx, "Launch", "", "")
	require.Error(t, err)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.Equal(t, StateError, r.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "in_flight", StateInFlight.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "success", StateSuccess.String())
}
