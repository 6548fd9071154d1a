package search

import (
	"context"
	"sync"

	"github.com/nexus-sus/nexus/internal/errors"
	"github.com/nexus-sus/nexus/internal/logging"
)

// Phase is the coarse state of the search view.
type Phase int

const (
	// PhaseIdle is the initial state: nothing submitted yet.
	PhaseIdle Phase = iota
	// PhaseLoading means a lookup is in flight and submit is disabled.
	PhaseLoading
	// PhaseError carries exactly one user-visible message.
	PhaseError
	// PhaseResult carries a Found or NotFound outcome.
	PhaseResult
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// ViewState is everything the view needs to render the search panel.
// Message is set only in PhaseError, Outcome only in PhaseResult.
type ViewState struct {
	Phase   Phase
	Message string
	Outcome *Outcome
}

// Busy reports whether submit should be disabled.
func (s ViewState) Busy() bool {
	return s.Phase == PhaseLoading
}

// Request identifies one dispatched lookup.
type Request struct {
	Seq  uint64
	Code string
}

// Controller owns the search view state machine:
//
//	Idle|Error|Result --submit(invalid)--> Error(MsgInvalidCode)
//	Idle|Error|Result --submit(valid)----> Loading
//	Loading ----------settle(outcome)----> Result
//	Loading ----------settle(error)------> Error(Message(err))
//
// Every submit supersedes the one before it. Settle only applies the
// answer for the most recent request; anything older is dropped, so a
// slow response can never overwrite a newer one.
//
// Controller is safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	state  ViewState
	seq    uint64
	logger *logging.Logger
}

// NewController returns a Controller in PhaseIdle. A nil logger is
// replaced by a no-op logger.
func NewController(logger *logging.Logger) *Controller {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Controller{logger: logger.WithComponent("search")}
}

// Submit validates raw. On failure the state becomes Error with
// MsgInvalidCode and ok is false; no lookup must be made. On success the
// state becomes Loading and the returned Request must be dispatched
// exactly once and reported back through Settle.
func (c *Controller) Submit(raw string) (req Request, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Any pending lookup is stale from here on, valid input or not.
	c.seq++

	code, err := ParseCode(raw)
	if err != nil {
		c.state = ViewState{Phase: PhaseError, Message: Message(err)}
		c.logger.Debug("submit rejected", "input", raw)
		return Request{}, false
	}

	c.state = ViewState{Phase: PhaseLoading}
	c.logger.Debug("submit accepted", "code", code, "seq", c.seq)
	return Request{Seq: c.seq, Code: code}, true
}

// Settle applies the result of the lookup identified by seq. It returns
// false, leaving the state untouched, when seq is not the latest request
// or the controller is no longer loading.
func (c *Controller) Settle(seq uint64, out *Outcome, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq || c.state.Phase != PhaseLoading {
		c.logger.Debug("dropping stale lookup result", "seq", seq, "latest", c.seq)
		return false
	}

	switch {
	case err != nil:
		c.logFailure(seq, err)
		c.state = ViewState{Phase: PhaseError, Message: Message(err)}
	case out == nil:
		c.state = ViewState{Phase: PhaseError, Message: MsgTransport}
	default:
		c.state = ViewState{Phase: PhaseResult, Outcome: out}
	}
	return true
}

// logFailure records a failed lookup at the level its severity calls for.
func (c *Controller) logFailure(seq uint64, err error) {
	args := []any{"seq", seq, "retryable", errors.IsRetryable(err), "error", err.Error()}
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug, errors.SeverityInfo:
		c.logger.Info("lookup settled with error", args...)
	case errors.SeverityWarning:
		c.logger.Warn("lookup settled with error", args...)
	default:
		c.logger.Error("lookup settled with error", args...)
	}
}

// Run is the synchronous form of Submit, Lookup and Settle. It returns the
// resulting state.
func (c *Controller) Run(ctx context.Context, l Lookuper, raw string) ViewState {
	req, ok := c.Submit(raw)
	if !ok {
		return c.State()
	}
	out, err := l.Lookup(ctx, req.Code)
	c.Settle(req.Seq, out, err)
	return c.State()
}

// State returns a snapshot of the current state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a lookup is in flight.
func (c *Controller) Busy() bool {
	return c.State().Busy()
}

// Reset returns to PhaseIdle and invalidates any pending lookup.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = ViewState{}
}
