package market

import (
	"fmt"
	"time"
)

// Resolution is the lifecycle state of a market. It only ever moves from
// Unresolved to one of the resolved states.
type Resolution uint8

const (
	Unresolved Resolution = iota
	ResolvedOutcome1
	ResolvedOutcome2
)

func (r Resolution) String() string {
	switch r {
	case Unresolved:
		return "unresolved"
	case ResolvedOutcome1:
		return "resolved_outcome1"
	case ResolvedOutcome2:
		return "resolved_outcome2"
	default:
		return fmt.Sprintf("resolution(%d)", uint8(r))
	}
}

// Resolved reports whether an outcome has been asserted.
func (r Resolution) Resolved() bool {
	return r == ResolvedOutcome1 || r == ResolvedOutcome2
}

// Outcome is one side of a market together with the ledger that tracks
// its position tokens.
type Outcome struct {
	Label  string
	Ledger LedgerID
}

// Market is the stored record of a binary market.
type Market struct {
	ID          ID
	Description string
	Sequence    uint64
	Outcome1    Outcome
	Outcome2    Outcome
	Resolution  Resolution
	// Pools holds the cumulative amount deposited into each outcome.
	// Redemptions do not reduce it.
	Pools      [2]int64
	AssertedBy string
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// New validates the inputs and builds an unresolved market with its two
// position ledgers.
func New(outcome1, outcome2, description string, sequence uint64) (Market, error) {
	err := ValidateDefinition(outcome1, outcome2, description)
	if err != nil {
		return Market{}, err
	}

	id := DeriveID(description, sequence)

	return Market{
		ID:          id,
		Description: description,
		Sequence:    sequence,
		Outcome1:    Outcome{Label: outcome1, Ledger: DeriveLedgerID(id, 0, outcome1)},
		Outcome2:    Outcome{Label: outcome2, Ledger: DeriveLedgerID(id, 1, outcome2)},
		Resolution:  Unresolved,
	}, nil
}

// ValidateDefinition checks the creation inputs of a market.
func ValidateDefinition(outcome1, outcome2, description string) error {
	switch {
	case outcome1 == "":
		return fmt.Errorf("%w: empty first outcome", ErrInvalidArgument)
	case outcome2 == "":
		return fmt.Errorf("%w: empty second outcome", ErrInvalidArgument)
	case description == "":
		return fmt.Errorf("%w: empty description", ErrInvalidArgument)
	case outcome1 == outcome2:
		return fmt.Errorf("%w: outcomes are the same", ErrInvalidArgument)
	}

	return nil
}

// Outcomes returns both outcomes in index order.
func (m *Market) Outcomes() [2]Outcome {
	return [2]Outcome{m.Outcome1, m.Outcome2}
}

// OutcomeIndex returns the index (0 or 1) of the outcome with the given
// label. Comparison is byte-exact.
func (m *Market) OutcomeIndex(label string) (int, error) {
	switch label {
	case m.Outcome1.Label:
		return 0, nil
	case m.Outcome2.Label:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q is not an outcome of market %s", ErrInvalidOutcome, label, m.ID)
	}
}

// Winner returns the index of the asserted outcome.
func (m *Market) Winner() (int, error) {
	switch m.Resolution {
	case ResolvedOutcome1:
		return 0, nil
	case ResolvedOutcome2:
		return 1, nil
	default:
		return 0, ErrMarketNotResolved
	}
}

// Resolve performs the single allowed transition out of Unresolved.
// The market is left untouched on error.
func (m *Market) Resolve(label, asserter string, at time.Time) error {
	if m.Resolution != Unresolved {
		return fmt.Errorf("%w: market %s is %s", ErrAlreadyResolved, m.ID, m.Resolution)
	}

	idx, err := m.OutcomeIndex(label)
	if err != nil {
		return err
	}

	if idx == 0 {
		m.Resolution = ResolvedOutcome1
	} else {
		m.Resolution = ResolvedOutcome2
	}

	m.AssertedBy = asserter
	m.ResolvedAt = at

	return nil
}
