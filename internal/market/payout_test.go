package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinary_Payout(t *testing.T) {
	t.Parallel()

	got, err := Binary{}.Payout(100, [2]int64{100, 50}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)

	got, err = Binary{}.Payout(0, [2]int64{100, 50}, 0)
	require.NoError(t, err)
	assert.Zero(t, got)

	assert.True(t, Binary{}.AllowsLateDeposits())
}

func TestProportional_Payout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stake  int64
		pools  [2]int64
		winner int
		want   int64
	}{
		{name: "sole_winner_takes_losing_pool", stake: 100, pools: [2]int64{100, 50}, winner: 0, want: 150},
		{name: "second_outcome_wins", stake: 50, pools: [2]int64{100, 50}, winner: 1, want: 150},
		{name: "rounds_down", stake: 1, pools: [2]int64{3, 1}, winner: 0, want: 1},
		{name: "split_between_winners", stake: 30, pools: [2]int64{90, 60}, winner: 0, want: 50},
		{name: "zero_stake", stake: 0, pools: [2]int64{100, 50}, winner: 0, want: 0},
		{name: "empty_winning_pool", stake: 0, pools: [2]int64{0, 50}, winner: 0, want: 0},
		{name: "empty_losing_pool", stake: 10, pools: [2]int64{10, 0}, winner: 0, want: 10},
		{name: "large_values_exact", stake: math.MaxInt64 / 4, pools: [2]int64{math.MaxInt64 / 2, math.MaxInt64 / 2}, winner: 0, want: math.MaxInt64/4 + math.MaxInt64/4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Proportional{}.Payout(tt.stake, tt.pools, tt.winner)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProportional_Errors(t *testing.T) {
	t.Parallel()

	_, err := Proportional{}.Payout(-1, [2]int64{1, 1}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Proportional{}.Payout(1, [2]int64{1, 1}, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Proportional{}.Payout(math.MaxInt64, [2]int64{math.MaxInt64, math.MaxInt64}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.False(t, Proportional{}.AllowsLateDeposits())
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, "binary", p.Name())

	p, err = ParsePolicy(" Proportional ")
	require.NoError(t, err)
	assert.Equal(t, "proportional", p.Name())

	_, err = ParsePolicy("pari-mutuel")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
