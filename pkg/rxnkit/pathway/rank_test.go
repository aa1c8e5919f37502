package pathway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
)

func rec(weight, freq float64, rxns ...string) Record {
	return Record{Reactions: rxns, Weight: weight, Frequency: freq}
}

func keys(records []Record) [][2]float64 {
	out := make([][2]float64, len(records))
	for i, r := range records {
		out[i] = [2]float64{r.Weight, r.Frequency}
	}
	return out
}

func TestRankAscending(t *testing.T) {
	in := []Record{rec(2, 5), rec(1, 9), rec(1, 3)}

	got := Rank(in, DefaultTopN, OrderAscending)
	assert.Equal(t, [][2]float64{{1, 3}, {1, 9}, {2, 5}}, keys(got))
}

func TestRankFrequencyDescending(t *testing.T) {
	in := []Record{rec(2, 5), rec(1, 9), rec(1, 3)}

	got := Rank(in, DefaultTopN, OrderFrequencyDescending)
	assert.Equal(t, [][2]float64{{1, 9}, {1, 3}, {2, 5}}, keys(got))
}

func TestRankTruncates(t *testing.T) {
	var in []Record
	for i := 15; i > 0; i-- {
		in = append(in, rec(float64(i), 1))
	}

	got := Rank(in, 10, OrderAscending)
	require.Len(t, got, 10)
	assert.Equal(t, 1.0, got[0].Weight)
	assert.Equal(t, 10.0, got[9].Weight)

	assert.Len(t, Rank(in, 0, OrderAscending), 15)
	assert.Len(t, Rank(in, -1, OrderAscending), 15)
	assert.Len(t, Rank(in[:3], 10, OrderAscending), 3)
}

func TestRankIsStableAndPure(t *testing.T) {
	in := []Record{rec(1, 1, "a"), rec(0, 0, "z"), rec(1, 1, "b"), rec(1, 1, "c")}
	snapshot := append([]Record(nil), in...)

	got := Rank(in, 0, OrderAscending)
	assert.Equal(t, []string{"z", "a", "b", "c"}, Reactions(got))
	assert.Equal(t, snapshot, in, "input untouched")
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, 10, OrderAscending))
}

func TestReactionsKeepsRepeats(t *testing.T) {
	got := Reactions([]Record{rec(0, 0, "1", "2"), rec(0, 0, "2", "3")})
	assert.Equal(t, []string{"1", "2", "2", "3"}, got)
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in   string
		want Order
	}{
		{"", OrderAscending},
		{"ascending", OrderAscending},
		{"Frequency-Desc", OrderFrequencyDescending},
	}
	for _, tc := range tests {
		got, err := ParseOrder(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	assert.Equal(t, "frequency-desc", OrderFrequencyDescending.String())

	_, err := ParseOrder("sideways")
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}
