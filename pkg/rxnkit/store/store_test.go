package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

func TestRunIDsAreOrdered(t *testing.T) {
	g := NewRunIDs()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := g.Next(now)
	b := g.Next(now)
	c := g.Next(now.Add(time.Second))
	assert.Less(t, a, b, "monotonic within the same millisecond")
	assert.Less(t, b, c)

	ts, ok := RunTime(a)
	require.True(t, ok)
	assert.True(t, ts.Equal(now))

	_, ok = RunTime("not-a-ulid")
	assert.False(t, ok)
}

func TestCloneReactionIsDeep(t *testing.T) {
	r := reaction.Reaction{Index: "1", Reactants: []string{"A"}, Products: []string{"B"}, ClassificationList: []string{"x"}}
	cp := CloneReaction(r)
	cp.Reactants[0] = "Z"
	cp.ClassificationList[0] = "y"
	assert.Equal(t, "A", r.Reactants[0])
	assert.Equal(t, "x", r.ClassificationList[0])
}
