// Package commitment guards the two-step secret commitment workflow:
// choose a bill to support or oppose, then choose a hidden amount of
// political capital, validating both steps against the current snapshot
// before anything reaches the network.
//
// The local checks are advisory. The server remains authoritative and may
// still reject a request that passed them (a stale snapshot, for example);
// such a rejection is surfaced by the sync driver, never retried here.
package commitment

import (
	"context"
	"strconv"

	apperrors "github.com/petrellis/caucus/internal/errors"
	"github.com/petrellis/caucus/internal/game/gamesync"
	"github.com/petrellis/caucus/internal/game/snapshot"
)

var (
	// ErrNotSelecting indicates a legislation choice arrived outside the Selecting state.
	ErrNotSelecting = apperrors.New(apperrors.CodeCommitmentNotSelecting, "no commitment is being selected")
	// ErrNotDrafting indicates an amount arrived outside the Drafting state.
	ErrNotDrafting = apperrors.New(apperrors.CodeCommitmentNotDrafting, "no commitment is being drafted")
	// ErrUnknownLegislation indicates the chosen bill is absent or already resolved.
	ErrUnknownLegislation = apperrors.New(apperrors.CodeCommitmentUnknownLegislation, "legislation is not open for commitments")
	// ErrAmountNotPositive indicates a zero or negative commitment amount.
	ErrAmountNotPositive = apperrors.New(apperrors.CodeCommitmentAmountNotPositive, "commitment amount must be a positive integer")
)

// Kind is the direction of a commitment.
type Kind string

const (
	// KindSupport commits capital in favor of the bill.
	KindSupport Kind = "support"
	// KindOppose commits capital against the bill.
	KindOppose Kind = "oppose"
)

// State identifies the controller's position in the workflow.
type State int

const (
	// StateIdle means no commitment is in progress.
	StateIdle State = iota
	// StateSelecting means a direction is chosen and a bill is awaited.
	StateSelecting
	// StateDrafting means a bill is chosen and an amount is awaited.
	StateDrafting
)

// Submitter sends a validated commitment request outward. Implemented by
// the sync driver.
type Submitter interface {
	Submit(ctx context.Context, req gamesync.Request) error
}

// Controller is the commitment workflow state machine for one actor.
type Controller struct {
	store     *snapshot.Store
	submitter Submitter
	actorID   string

	state         State
	kind          Kind
	legislationID string
}

// NewController creates an idle controller validating against store and
// submitting through submitter on behalf of actorID.
func NewController(store *snapshot.Store, submitter Submitter, actorID string) *Controller {
	return &Controller{
		store:     store,
		submitter: submitter,
		actorID:   actorID,
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	return c.state
}

// Draft returns the in-progress direction and bill, empty outside a draft.
func (c *Controller) Draft() (Kind, string) {
	return c.kind, c.legislationID
}

// Begin starts a commitment of the given direction, discarding any
// in-progress draft.
func (c *Controller) Begin(kind Kind) {
	c.state = StateSelecting
	c.kind = kind
	c.legislationID = ""
}

// SelectLegislation attaches a bill to the draft. The bill must be open
// for commitments in the current snapshot: present as the pending record
// or unresolved within the term list. On rejection the controller stays in
// Selecting.
func (c *Controller) SelectLegislation(id string) error {
	if c.state != StateSelecting {
		return ErrNotSelecting
	}
	if !c.store.Current().OpenLegislation(id) {
		return ErrUnknownLegislation
	}
	c.legislationID = id
	c.state = StateDrafting
	return nil
}

// SubmitAmount validates the secret amount against the actor's political
// capital and, only when the check passes, emits exactly one request and
// returns the controller to Idle. A failed check holds the Drafting state
// and never touches the network. A submitter error (server rejection or
// transport failure) is returned to the caller; the draft is already
// discarded, since the request left the client.
func (c *Controller) SubmitAmount(ctx context.Context, amount int) error {
	if c.state != StateDrafting {
		return ErrNotDrafting
	}
	if amount <= 0 {
		return ErrAmountNotPositive
	}
	balance := c.store.Current().PoliticalCapital[c.actorID]
	if amount > balance {
		return apperrors.WithMetadata(apperrors.CodeCommitmentInsufficientCapital,
			"commitment exceeds political capital balance",
			map[string]string{
				"amount":  strconv.Itoa(amount),
				"balance": strconv.Itoa(balance),
			})
	}

	req := gamesync.Request{
		ActionKind:    actionKind(c.kind),
		LegislationID: c.legislationID,
		Amount:        amount,
	}
	c.reset()
	return c.submitter.Submit(ctx, req)
}

// Cancel discards the draft and returns to Idle with no side effects.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.kind = ""
	c.legislationID = ""
}

func actionKind(kind Kind) string {
	if kind == KindOppose {
		return "oppose_legislation"
	}
	return "support_legislation"
}
