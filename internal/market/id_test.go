package market

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveID_Deterministic(t *testing.T) {
	t.Parallel()

	a := DeriveID("Will it rain?", 10)
	b := DeriveID("Will it rain?", 10)

	assert.Equal(t, a, b)
	assert.Len(t, a.String(), 64)
}

func TestDeriveID_DistinctInputs(t *testing.T) {
	t.Parallel()

	inputs := []struct {
		desc string
		seq  uint64
	}{
		{"Will it rain?", 10},
		{"Will it rain?", 11},
		{"Will it rain?!", 10},
		{"", 0},
		{"a", 0},
		{"ab", 0x6300000000000000},
		{"abc", 0},
	}

	seen := make(map[ID]int, len(inputs))
	for i, in := range inputs {
		id := DeriveID(in.desc, in.seq)
		if prev, ok := seen[id]; ok {
			t.Fatalf("inputs %d and %d share id %s", prev, i, id)
		}
		seen[id] = i
	}
}

func TestDeriveLedgerID_PerOutcome(t *testing.T) {
	t.Parallel()

	id := DeriveID("desc", 1)

	l0 := DeriveLedgerID(id, 0, "Yes")
	l1 := DeriveLedgerID(id, 1, "No")

	assert.NotEqual(t, l0, l1)
	assert.Equal(t, l0, DeriveLedgerID(id, 0, "Yes"))
	assert.NotEqual(t, l0, DeriveLedgerID(DeriveID("desc", 2), 0, "Yes"))
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id := DeriveID("desc", 1)

	got, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = ParseID(strings.ToUpper(id.String()))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "abc", string(id)[:63] + "z"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, "input %q", bad)
	}
}

func TestCustodyAccount(t *testing.T) {
	t.Parallel()

	id := DeriveID("desc", 1)
	assert.Equal(t, "market:"+id.String(), CustodyAccount(id))
}

func TestIsCustodyAccount(t *testing.T) {
	t.Parallel()

	id := DeriveID("x", 1)
	assert.True(t, IsCustodyAccount(CustodyAccount(id)))
	assert.False(t, IsCustodyAccount("alice"))
	assert.False(t, IsCustodyAccount("markets"))
}
