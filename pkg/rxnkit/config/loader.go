package config

import (
	"fmt"
	"path/filepath"

	"github.com/cognicore/rxnkit/pkg/rxnkit/classify"
	"github.com/cognicore/rxnkit/pkg/rxnkit/tree"
	"github.com/cognicore/rxnkit/pkg/rxnkit/workflow"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	WorkflowPath   string
	VocabularyPath string
}

// Components holds all loaded configuration components
type Components struct {
	Workflow   *Workflow
	Vocabulary *Vocabulary
	Classifier *classify.Classifier
}

// TreeOptions returns the options for building a classification tree that
// only accepts vocabulary tags.
func (c *Components) TreeOptions() []tree.Option {
	return []tree.Option{tree.WithVocabulary(c.Vocabulary.Tags...)}
}

// Load reads the configuration files and returns initialized components.
// A vocabulary_file named in the workflow config is used when VocabularyPath
// is empty.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	wf, err := LoadWorkflow(l.WorkflowPath)
	if err != nil {
		return nil, fmt.Errorf("load workflow config: %w", err)
	}
	comp.Workflow = wf

	vocabPath := l.VocabularyPath
	if vocabPath == "" {
		vocabPath = wf.VocabularyFile
	}
	if vocabPath != "" {
		voc, err := LoadVocabulary(vocabPath)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		comp.Vocabulary = voc
	} else {
		comp.Vocabulary = DefaultVocabulary()
	}

	rules := classify.NewChargeRules(comp.Vocabulary.ElectronTokens...)
	comp.Classifier = classify.New(rules, rules)
	return comp, nil
}

// RunOptions maps the loaded settings onto workflow options. A relative
// output_file is placed in the phase 2 directory.
func (c *Components) RunOptions() workflow.Options {
	w := c.Workflow
	out := w.OutputFile
	if out != "" && !filepath.IsAbs(out) && w.Phase2Dir != "" {
		out = filepath.Join(w.Phase2Dir, out)
	}
	return workflow.Options{
		Phase1Dir:          w.Phase1Dir,
		Phase2Dir:          w.Phase2Dir,
		OutputPath:         out,
		FrequencyThreshold: w.FrequencyThreshold,
		TopPathways:        w.TopPathways,
		PathwayOrder:       w.Order(),
		Classifier:         c.Classifier,
		TreeOptions:        c.TreeOptions(),
	}
}
