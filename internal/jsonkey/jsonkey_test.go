package jsonkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestGetMatchesLiteralKeys(t *testing.T) {
	doc := gjson.Parse(`{"a.b": 1, "OpenBabelNN + metal_edge_extender": {"x": 2}, "*": 3}`)

	assert.Equal(t, int64(1), Get(doc, "a.b").Int())
	assert.Equal(t, int64(2), Get(Get(doc, "OpenBabelNN + metal_edge_extender"), "x").Int())
	assert.Equal(t, int64(3), Get(doc, "*").Int())
	assert.False(t, Get(doc, "a").Exists())
}

func TestGetOnNonObject(t *testing.T) {
	for _, raw := range []string{`[{"reactants": []}]`, `"text"`, `7`, ``} {
		assert.False(t, Get(gjson.Parse(raw), "reactants").Exists(), raw)
	}
}
