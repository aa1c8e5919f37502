package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

func TestParseSpecies(t *testing.T) {
	tests := []struct {
		id      string
		formula string
		charge  int
		known   bool
	}{
		{"9f1c2a-C4H8O2-0-1", "C4H8O2", 0, true},
		{"9f1c2a-C4H8O2-m1-2", "C4H8O2", -1, true},
		{"9f1c2a-C4H8O2-1-2", "C4H8O2", 1, true},
		{"C4H8_0_#2", "C4H8", 0, true},
		{"C4H8_-1", "C4H8", -1, true},
		{"C4H8_+1", "C4H8", 1, true},
		{"water", "water", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			sp := ParseSpecies(tc.id)
			assert.Equal(t, tc.formula, sp.Formula)
			assert.Equal(t, tc.charge, sp.Charge)
			assert.Equal(t, tc.known, sp.ChargeKnown)
		})
	}
}

func TestChargeRulesIonization(t *testing.T) {
	rules := NewChargeRules()

	tests := []struct {
		name  string
		rxn   *reaction.Reaction
		ion   bool
		broad string
	}{
		{"positive ionization", reaction.New("1", []string{"A_0"}, []string{"A_1", "e-"}), true, TagPositiveIonization},
		{"attachment", reaction.New("2", []string{"A_0", "e-"}, []string{"A_-1"}), true, TagElectronAttachment},
		{"recombination", reaction.New("3", []string{"A_1", "e-"}, []string{"A_0"}), true, TagElectronCationRecomb},
		{"ambiguous", reaction.New("4", []string{"mystery", "e-"}, []string{"product"}), true, TagAttachOrRecombine},
		{"oxidation", reaction.New("5", []string{"aa-C1H4-0-1"}, []string{"aa-C1H4-1-2"}), true, TagPositiveIonization},
		{"reduction", reaction.New("8", []string{"aa-C1H4-0-1"}, []string{"aa-C1H4-m1-2"}), true, TagElectronAttachment},
		{"cation reduction", reaction.New("9", []string{"aa-C1H4-1-2"}, []string{"aa-C1H4-0-1"}), true, TagElectronCationRecomb},
		{"mixed reactant charges", reaction.New("10", []string{"A_1", "B_0"}, []string{"C_0"}), true, TagAttachOrRecombine},
		{"chemical", reaction.New("6", []string{"A_0"}, []string{"B_0", "C_0"}), false, ""},
		{"unknown charges", reaction.New("7", []string{"x"}, []string{"y"}), false, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ion, rules.IsIonization(tc.rxn))
			if tc.ion {
				assert.Equal(t, tc.broad, rules.BroadIonizationTag(tc.rxn))
			}
		})
	}
}

func TestChargeRulesCustomElectronToken(t *testing.T) {
	rules := NewChargeRules("E")
	r := reaction.New("1", []string{"A_0", "E"}, []string{"A_-1"})
	assert.True(t, rules.IsIonization(r))
	assert.Equal(t, TagElectronAttachment, rules.BroadIonizationTag(r))
}

func TestChemicalTags(t *testing.T) {
	rules := NewChargeRules()
	tests := []struct {
		reactants, products []string
		molecularity, tag   string
	}{
		{[]string{"A"}, []string{"B", "C"}, Unimolecular, TagFragmentation},
		{[]string{"A"}, []string{"B"}, Unimolecular, TagIsomerization},
		{[]string{"A", "B"}, []string{"C"}, Bimolecular, TagCombination},
		{[]string{"A", "B"}, []string{"C", "D"}, Bimolecular, TagByproduct},
		{[]string{"A", "B", "C"}, []string{"D"}, Termolecular, TagCombination},
	}
	for _, tc := range tests {
		r := reaction.New("1", tc.reactants, tc.products)
		assert.Equal(t, tc.molecularity, Molecularity(r))
		assert.Equal(t, tc.tag, rules.ChemicalTag(r))
	}
}

func TestNarrowUsesCompanionReactions(t *testing.T) {
	c := New(nil, nil)
	pop := NewPopulation()

	ionize := reaction.New("1", []string{"M"}, []string{"Mplus", "e-"})
	capture := reaction.New("2", []string{"Mplus", "e-"}, []string{"M"})
	lonely := reaction.New("3", []string{"Q", "e-"}, []string{"Qminus"})

	for _, r := range []*reaction.Reaction{ionize, capture, lonely} {
		require.True(t, pop.AddIfNew(r, c.Tag(r)))
	}
	require.Equal(t, TagAttachOrRecombine, capture.Tag)
	require.Equal(t, TagAttachOrRecombine, lonely.Tag)

	n := c.Narrow(pop.Reactions())
	assert.Equal(t, 2, n)
	assert.Equal(t, TagElectronCationRecomb, capture.Tag)
	assert.Equal(t, TagElectronAttachment, lonely.Tag)
	assert.Equal(t, TagPositiveIonization, ionize.Tag)
}

func TestNarrowWithoutElectronTokens(t *testing.T) {
	c := New(nil, nil)
	pop := NewPopulation()

	oxidize := reaction.New("1", []string{"aa-C1H4-0-1"}, []string{"aa-C1H4-1-2"})
	capture := reaction.New("2", []string{"aa-C1H4-1-2", "bb-H2O1-0-1"}, []string{"cc-C1H6O1-0-1"})
	unpaired := reaction.New("3", []string{"dd-Li1-1-1", "bb-H2O1-0-1"}, []string{"ee-H2Li1O1-0-1"})

	for _, r := range []*reaction.Reaction{oxidize, capture, unpaired} {
		require.True(t, pop.AddIfNew(r, c.Tag(r)))
	}
	assert.Equal(t, TagPositiveIonization, oxidize.Tag)
	require.Equal(t, TagAttachOrRecombine, capture.Tag)
	require.Equal(t, TagAttachOrRecombine, unpaired.Tag)

	assert.Equal(t, 2, c.Narrow(pop.Reactions()))
	assert.Equal(t, TagElectronCationRecomb, capture.Tag)
	assert.Equal(t, TagElectronAttachment, unpaired.Tag)
}

func TestIonizationTagsAreClosed(t *testing.T) {
	for _, tag := range []string{TagPositiveIonization, TagElectronAttachment, TagElectronCationRecomb, TagAttachOrRecombine} {
		assert.True(t, IsIonizationTag(tag), tag)
	}
	assert.False(t, IsIonizationTag("charge_transfer"))
	assert.False(t, IsIonizationTag(TagCombination))
}

func TestClassifyPaths(t *testing.T) {
	c := New(nil, nil)

	ion := reaction.New("1", []string{"A_0", "e-"}, []string{"A_-1"})
	chem := reaction.New("2", []string{"A_0", "B_0"}, []string{"C_0"})
	pop := []*reaction.Reaction{ion, chem}

	assert.Equal(t, []string{"ionization", TagElectronAttachment}, c.Classify(ion, pop))
	assert.Equal(t, []string{"chemical", Bimolecular, TagCombination}, c.Classify(chem, pop))
}

func TestClassifyFollowsAssignedTag(t *testing.T) {
	c := New(nil, nil)
	// A charge-changing reaction forced onto the chemical branch stays there.
	r := reaction.New("1", []string{"A_1", "B_0"}, []string{"C_0"})
	r.Tag = c.ChemicalTag(r)
	assert.Equal(t, []string{"chemical", Bimolecular, TagCombination}, c.Classify(r, nil))
}

func TestClassifyNarrowsAmbiguousTag(t *testing.T) {
	c := New(nil, nil)
	capture := reaction.New("2", []string{"X", "e-"}, []string{"Y"})
	capture.Tag = TagAttachOrRecombine
	ionize := reaction.New("1", []string{"Z"}, []string{"X", "e-"})

	path := c.Classify(capture, []*reaction.Reaction{ionize, capture})
	assert.Equal(t, []string{"ionization", TagElectronCationRecomb}, path)
}

func TestAssignKeepsExistingPaths(t *testing.T) {
	c := New(nil, nil)
	r1 := reaction.New("1", []string{"A"}, []string{"B"})
	r2 := reaction.New("2", []string{"A"}, []string{"B", "C"})
	r2.ClassificationList = []string{"custom"}

	c.Assign([]*reaction.Reaction{r1, r2})
	assert.Equal(t, []string{"chemical", Unimolecular, TagIsomerization}, r1.ClassificationList)
	assert.Equal(t, []string{"custom"}, r2.ClassificationList)
}

type fixedChem struct{}

func (fixedChem) ChemicalTag(*reaction.Reaction) string { return "custom_tag" }

func TestClassifierUsesInjectedPredicates(t *testing.T) {
	c := New(nil, fixedChem{})
	r := reaction.New("1", []string{"A"}, []string{"B"})
	assert.Equal(t, "custom_tag", c.Tag(r))
	assert.Equal(t, []string{"chemical", Unimolecular, "custom_tag"}, c.Classify(r, nil))
}

func TestPopulationDeduplicatesByName(t *testing.T) {
	pop := NewPopulation()

	first := reaction.New("1", []string{"A", "B"}, []string{"C"})
	sameSpecies := reaction.New("99", []string{"B", "A"}, []string{"C"})
	different := reaction.New("2", []string{"A", "A", "B"}, []string{"C"})

	assert.True(t, pop.AddIfNew(first, "t1"))
	assert.False(t, pop.AddIfNew(sameSpecies, "t2"))
	assert.True(t, pop.AddIfNew(different, "t3"))

	assert.Equal(t, 2, pop.Len())
	assert.Equal(t, "t1", first.Tag)
	assert.Empty(t, sameSpecies.Tag, "discarded duplicate is not tagged")
	assert.True(t, pop.Contains(sameSpecies))
	assert.Equal(t, []*reaction.Reaction{first, different}, pop.Reactions())
}
