// Package config loads rxnkit settings: the workflow settings through viper
// and the classification vocabulary from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/rxnkit/pkg/rxnkit/classify"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
)

// Vocabulary lists the tags a classification tree may contain and the
// species identifiers read as free electrons.
type Vocabulary struct {
	Tags           []string `yaml:"tags"`
	ElectronTokens []string `yaml:"electron_tokens"`
}

// DefaultVocabulary covers every tag the default charge rules produce.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Tags: []string{
			classify.BranchIonization,
			classify.TagPositiveIonization,
			classify.TagElectronAttachment,
			classify.TagElectronCationRecomb,
			classify.TagAttachOrRecombine,
			classify.BranchChemical,
			classify.Unimolecular,
			classify.Bimolecular,
			classify.Termolecular,
			classify.TagFragmentation,
			classify.TagIsomerization,
			classify.TagCombination,
			classify.TagByproduct,
		},
		ElectronTokens: append([]string(nil), classify.DefaultElectronTokens...),
	}
}

// LoadVocabulary loads a vocabulary from a YAML file. Sections left empty
// fall back to the defaults.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.FromOpen(path, err)
	}

	var voc Vocabulary
	if err := yaml.Unmarshal(data, &voc); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}

	def := DefaultVocabulary()
	if len(voc.Tags) == 0 {
		voc.Tags = def.Tags
	}
	if len(voc.ElectronTokens) == 0 {
		voc.ElectronTokens = def.ElectronTokens
	}
	for _, tag := range voc.Tags {
		if tag == "" {
			return nil, fmt.Errorf("vocabulary %s: empty tag: %w", path, internalerr.ErrInvalidConfig)
		}
	}
	return &voc, nil
}
