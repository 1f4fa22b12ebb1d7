package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcome1 string
		outcome2 string
		desc     string
		wantErr  error
	}{
		{name: "ok", outcome1: "Yes", outcome2: "No", desc: "Will it rain?"},
		{name: "empty_first_outcome", outcome1: "", outcome2: "No", desc: "d", wantErr: ErrInvalidArgument},
		{name: "empty_second_outcome", outcome1: "Yes", outcome2: "", desc: "d", wantErr: ErrInvalidArgument},
		{name: "empty_description", outcome1: "Yes", outcome2: "No", desc: "", wantErr: ErrInvalidArgument},
		{name: "equal_outcomes", outcome1: "Yes", outcome2: "Yes", desc: "d", wantErr: ErrInvalidArgument},
		{name: "case_differs_is_distinct", outcome1: "yes", outcome2: "Yes", desc: "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := New(tt.outcome1, tt.outcome2, tt.desc, 10)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, DeriveID(tt.desc, 10), m.ID)
			assert.Equal(t, Unresolved, m.Resolution)
			assert.Equal(t, tt.outcome1, m.Outcome1.Label)
			assert.Equal(t, tt.outcome2, m.Outcome2.Label)
			assert.NotEqual(t, m.Outcome1.Ledger, m.Outcome2.Ledger)
		})
	}
}

func TestMarket_OutcomeIndex(t *testing.T) {
	t.Parallel()

	m, err := New("Yes", "No", "d", 1)
	require.NoError(t, err)

	idx, err := m.OutcomeIndex("Yes")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = m.OutcomeIndex("No")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = m.OutcomeIndex("yes")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestMarket_Resolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("invalid_outcome_keeps_unresolved", func(t *testing.T) {
		t.Parallel()

		m, err := New("Yes", "No", "d", 1)
		require.NoError(t, err)

		err = m.Resolve("Maybe", "oracle", now)
		require.ErrorIs(t, err, ErrInvalidOutcome)
		assert.Equal(t, Unresolved, m.Resolution)
		assert.Empty(t, m.AssertedBy)
	})

	t.Run("second_assertion_rejected", func(t *testing.T) {
		t.Parallel()

		m, err := New("Yes", "No", "d", 1)
		require.NoError(t, err)

		require.NoError(t, m.Resolve("No", "oracle", now))
		assert.Equal(t, ResolvedOutcome2, m.Resolution)

		err = m.Resolve("Yes", "other", now.Add(time.Hour))
		require.ErrorIs(t, err, ErrAlreadyResolved)
		assert.Equal(t, ResolvedOutcome2, m.Resolution)
		assert.Equal(t, "oracle", m.AssertedBy)
		assert.Equal(t, now, m.ResolvedAt)

		winner, err := m.Winner()
		require.NoError(t, err)
		assert.Equal(t, 1, winner)
	})

	t.Run("already_resolved_wins_over_invalid_outcome", func(t *testing.T) {
		t.Parallel()

		m, err := New("Yes", "No", "d", 1)
		require.NoError(t, err)
		require.NoError(t, m.Resolve("Yes", "oracle", now))

		err = m.Resolve("Maybe", "oracle", now)
		assert.ErrorIs(t, err, ErrAlreadyResolved)
	})
}

func TestMarket_WinnerUnresolved(t *testing.T) {
	t.Parallel()

	m, err := New("Yes", "No", "d", 1)
	require.NoError(t, err)

	_, err = m.Winner()
	assert.ErrorIs(t, err, ErrMarketNotResolved)
}
