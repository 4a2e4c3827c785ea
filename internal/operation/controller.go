// Package operation sequences the request/response cycle of each console operation.
package operation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/commitfit/internal/input"
	"github.com/commitfit/internal/logging"
	"github.com/commitfit/internal/render"
	"github.com/commitfit/internal/transport"
	"github.com/commitfit/pkg/models"
)

// Region is a display area owned by exactly one controller.
type Region interface {
	Clear()
	Paint(render.Fragment)
}

// Config wires a controller to its collaborators.
type Config struct {
	Definition   Definition
	Input        input.Binding
	Sender       transport.Sender
	Status       Region
	Result       Region
	DiscardStale bool
}

// Outcome is the terminal result of one cycle.
type Outcome struct {
	Token     uint64
	RequestID string // empty when no request was made
	State     models.State
	Painted   bool // false when the cycle was superseded and discarded
	Err       error
}

// Controller runs one operation. Each trigger clears the operation's own two
// regions, makes at most one backend call and paints the result. Cycles of
// different controllers never touch each other's regions.
type Controller struct {
	def          Definition
	input        input.Binding
	sender       transport.Sender
	status       Region
	result       Region
	discardStale bool

	mu       sync.Mutex // guards token, state, inflight and every paint
	token    uint64
	state    models.State
	inflight int
	idle     *sync.Cond
}

// NewController validates cfg and returns an idle controller.
func NewController(cfg Config) (*Controller, error) {
	kind := cfg.Definition.Kind
	switch {
	case kind == "":
		return nil, fmt.Errorf("operation kind is required")
	case cfg.Definition.Decode == nil:
		return nil, fmt.Errorf("operation %s: decoder is required", kind)
	case cfg.Input == nil:
		return nil, fmt.Errorf("operation %s: input binding is required", kind)
	case cfg.Sender == nil:
		return nil, fmt.Errorf("operation %s: sender is required", kind)
	case cfg.Status == nil || cfg.Result == nil:
		return nil, fmt.Errorf("operation %s: status and result regions are required", kind)
	}

	c := &Controller{
		def:          cfg.Definition,
		input:        cfg.Input,
		sender:       cfg.Sender,
		status:       cfg.Status,
		result:       cfg.Result,
		discardStale: cfg.DiscardStale,
		state:        models.StateIdle,
	}
	c.idle = sync.NewCond(&c.mu)
	return c, nil
}

// Kind returns the operation this controller runs.
func (c *Controller) Kind() models.OperationKind {
	return c.def.Kind
}

// State returns the state painted by the latest cycle.
func (c *Controller) State() models.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Trigger starts a cycle and returns its token without waiting for the
// backend. Regions are cleared and the processing message is painted before
// Trigger returns.
func (c *Controller) Trigger() uint64 {
	token, ref, _, proceed := c.start(true)
	if !proceed {
		return token
	}

	go func() {
		defer c.done()
		c.complete(context.Background(), token, ref)
	}()
	return token
}

// Run executes one cycle and waits for it to finish.
func (c *Controller) Run(ctx context.Context) Outcome {
	token, ref, outcome, proceed := c.start(false)
	if !proceed {
		return outcome
	}
	return c.complete(ctx, token, ref)
}

// Wait blocks until every cycle started by Trigger has finished. It may
// overlap with new triggers.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inflight > 0 {
		c.idle.Wait()
	}
}

func (c *Controller) done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.inflight == 0 {
		c.idle.Broadcast()
	}
}

// start covers everything up to the network call: snapshot, clear, validate,
// processing message. A tracked cycle is counted as in flight before the lock
// is released.
func (c *Controller) start(tracked bool) (uint64, models.RepoRef, Outcome, bool) {
	ref := c.input.Read()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++
	token := c.token

	c.status.Clear()
	c.result.Clear()

	if c.def.RequireRepo && !ref.Complete() {
		c.state = models.StateError
		c.status.Paint(render.Fragment{Message: validationMessage})
		logger := logging.Operation(c.def.Kind, token, "")
		logger.Warn().
			Str("owner", ref.Owner).
			Str("repo", ref.Repo).
			Msg("Owner or repository missing, request not sent")
		return token, ref, Outcome{
			Token:   token,
			State:   models.StateError,
			Painted: true,
			Err:     ValidationError{Message: validationMessage},
		}, false
	}

	if tracked {
		c.inflight++
	}
	c.state = models.StateLoading
	c.status.Paint(render.Fragment{Message: c.def.Processing})
	return token, ref, Outcome{}, true
}

func (c *Controller) complete(ctx context.Context, token uint64, ref models.RepoRef) Outcome {
	req := models.OperationRequest{
		ID:       uuid.NewString(),
		Token:    token,
		Endpoint: c.def.Endpoint,
		Body:     ref,
	}
	logger := logging.Operation(c.def.Kind, token, req.ID)
	started := time.Now()

	logger.Debug().
		Str("endpoint", req.Endpoint).
		Str("repository", ref.FullName()).
		Msg("Sending request")

	var frag render.Fragment
	payload, err := c.sender.Send(ctx, req.Endpoint, req.Body)
	if err == nil {
		frag, err = c.def.Decode(ref, payload)
	}

	outcome := Outcome{Token: token, RequestID: req.ID, State: models.StateSuccess, Err: err}
	if err != nil {
		outcome.State = models.StateError
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discardStale && token != c.token {
		logger.Debug().
			Uint64("current_token", c.token).
			Dur("elapsed", time.Since(started)).
			Msg("Discarding response of superseded trigger")
		return outcome
	}

	outcome.Painted = true
	c.state = outcome.State

	if err != nil {
		c.status.Paint(render.Fragment{Message: "Error: " + err.Error()})
		c.result.Clear()
		errorEvent(logger, err).
			Err(err).
			Dur("elapsed", time.Since(started)).
			Msg("Operation failed")
		return outcome
	}

	output, rest := frag.Split()
	c.status.Paint(render.Fragment{Message: c.def.Completed, Output: output})
	if rest.Empty() {
		c.result.Clear()
	} else {
		c.result.Paint(rest)
	}

	logger.Info().
		Dur("elapsed", time.Since(started)).
		Int("links", len(rest.Links)).
		Bool("gallery", rest.Gallery != nil).
		Msg("Operation completed")
	return outcome
}

// errorEvent logs backend-reported failures as warnings and transport failures as errors.
func errorEvent(logger zerolog.Logger, err error) *zerolog.Event {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return logger.Warn()
	}
	return logger.Error()
}
