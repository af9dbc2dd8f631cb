// Package client implements the plan requester: a single-flight HTTP client
// for the plan generation endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/planr/pkg/plan"
)

// DefaultTimeout bounds a plan request when the caller's context carries no
// deadline. Local models can be slow on first load.
const DefaultTimeout = 120 * time.Second

// State is the requester lifecycle state.
type State int

const (
	// StateIdle means no request has been made yet.
	StateIdle State = iota
	// StateInFlight means a request is outstanding.
	StateInFlight
	// StateError means the last request failed.
	StateError
	// StateSuccess means the last request returned a plan.
	StateSuccess
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in_flight"
	case StateError:
		return "error"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ErrInFlight is returned when Submit is called while a request is
// outstanding. One plan request at a time.
var ErrInFlight = errors.New("a plan request is already in flight")

// TransportError indicates the backend could not be reached or answered
// with a non-success status.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generation failed: %v (check that the planr backend is running at %s)", e.Err, e.Endpoint)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// GeneratorError carries an error payload reported by the generator itself.
type GeneratorError struct {
	Payload *plan.Error
}

func (e *GeneratorError) Error() string {
	if e.Payload.Details != "" {
		return fmt.Sprintf("%s: %s", e.Payload.Error, e.Payload.Details)
	}
	return e.Payload.Error
}

// Requester submits plan requests to a running planr service. It enforces a
// single in-flight request; terminal states accept the next submit.
type Requester struct {
	mu         sync.Mutex
	baseURL    string
	httpClient *http.Client
	state      State
}

// New creates a requester for the service at baseURL.
func New(baseURL string) *Requester {
	return &Requester{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		state:      StateIdle,
	}
}

// State returns the current lifecycle state.
func (r *Requester) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Submit sends one plan request and returns the resulting plan.
//
// A blank goal is rejected before any network call. Constraints given as a
// comma-separated string are split into trimmed tokens. Transport failures
// and generator-reported errors both leave the requester in StateError but
// ready to accept the next submit.
func (r *Requester) Submit(ctx context.Context, goal, deadline, constraints string) (*plan.Plan, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, plan.ErrBlankGoal
	}

	r.mu.Lock()
	if r.state == StateInFlight {
		r.mu.Unlock()
		return nil, ErrInFlight
	}
	r.state = StateInFlight
	r.mu.Unlock()

	p, err := r.send(ctx, &plan.Request{
		Goal:        goal,
		Deadline:    strings.TrimSpace(deadline),
		Constraints: plan.SplitConstraints(constraints),
	})

	r.mu.Lock()
	if err != nil {
		r.state = StateError
	} else {
		r.state = StateSuccess
	}
	r.mu.Unlock()

	return p, err
}

func (r *Requester) send(ctx context.Context, req *plan.Request) (*plan.Plan, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	endpoint := r.baseURL + "/generate-plan"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Endpoint: r.baseURL, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: r.baseURL, Err: err}
	}

	// The generator reports failures as {error, details} payloads, with or
	// without a success status. Render those verbatim rather than as plans.
	var envelope struct {
		plan.Plan
		Error   string `json:"error"`
		Details string `json:"details"`
		Raw     string `json:"raw_response"`
	}
	if jsonErr := json.Unmarshal(respBody, &envelope); jsonErr == nil && envelope.Error != "" {
		return nil, &GeneratorError{Payload: &plan.Error{
			Error:       envelope.Error,
			Details:     envelope.Details,
			RawResponse: envelope.Raw,
		}}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Endpoint: r.baseURL,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var result plan.Plan
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &TransportError{
			Endpoint: r.baseURL,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}

	return &result, nil
}
