package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/cognicore/rxnkit/internal/logging"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/pathway"
	"github.com/cognicore/rxnkit/pkg/rxnkit/workflow"
)

// envPrefix maps nested keys onto RXNKIT_* variables, e.g.
// kinetiscope.start_line -> RXNKIT_KINETISCOPE_START_LINE.
const envPrefix = "RXNKIT"

// Defaults.
const (
	DefaultOutputFile         = workflow.DefaultOutputFile
	DefaultFrequencyThreshold = workflow.DefaultFrequencyThreshold
	DefaultStartLine          = 1
	DefaultEndLine            = 0 // 0 reads to the end of the file
)

// Workflow holds the settings of a classification or top-reaction run.
type Workflow struct {
	Phase1Dir          string            `mapstructure:"phase1_dir"`
	Phase2Dir          string            `mapstructure:"phase2_dir"`
	OutputFile         string            `mapstructure:"output_file"`
	FrequencyThreshold float64           `mapstructure:"frequency_threshold"`
	TopPathways        int               `mapstructure:"top_pathways"`
	PathwayOrder       string            `mapstructure:"pathway_order"`
	VocabularyFile     string            `mapstructure:"vocabulary_file"`
	StorePath          string            `mapstructure:"store_path"`
	Kinetiscope        Kinetiscope       `mapstructure:"kinetiscope"`
	Log                logging.LogConfig `mapstructure:"log"`
}

// Kinetiscope locates the flat simulation files.
type Kinetiscope struct {
	SelectFreqFile string `mapstructure:"select_freq_file"`
	ReactionFile   string `mapstructure:"reaction_file"`
	StartLine      int    `mapstructure:"start_line"`
	EndLine        int    `mapstructure:"end_line"`
}

// Order returns the parsed pathway order.
func (w *Workflow) Order() pathway.Order {
	o, _ := pathway.ParseOrder(w.PathwayOrder)
	return o
}

// LineRange returns the inclusive line range to read from the frequency
// file. An EndLine of 0 means no upper bound.
func (w *Workflow) LineRange() (start, end int) {
	end = w.Kinetiscope.EndLine
	if end == 0 {
		end = int(^uint(0) >> 1)
	}
	return w.Kinetiscope.StartLine, end
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key, which also makes each one reachable from
// the environment during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("phase1_dir", "")
	v.SetDefault("phase2_dir", "")
	v.SetDefault("output_file", DefaultOutputFile)
	v.SetDefault("frequency_threshold", DefaultFrequencyThreshold)
	v.SetDefault("top_pathways", pathway.DefaultTopN)
	v.SetDefault("pathway_order", pathway.OrderAscending.String())
	v.SetDefault("vocabulary_file", "")
	v.SetDefault("store_path", "")
	v.SetDefault("kinetiscope.select_freq_file", "")
	v.SetDefault("kinetiscope.reaction_file", "")
	v.SetDefault("kinetiscope.start_line", DefaultStartLine)
	v.SetDefault("kinetiscope.end_line", DefaultEndLine)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_paths", []string{"stderr"})
}

// LoadWorkflow reads the YAML file at path, applies RXNKIT_* environment
// overrides and defaults, and validates the result. An empty path loads
// from the environment and defaults alone.
func LoadWorkflow(path string) (*Workflow, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &internalerr.MissingFileError{Path: path}
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Workflow{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultWorkflow returns the defaults without consulting the environment.
func DefaultWorkflow() *Workflow {
	return &Workflow{
		OutputFile:         DefaultOutputFile,
		FrequencyThreshold: DefaultFrequencyThreshold,
		TopPathways:        pathway.DefaultTopN,
		PathwayOrder:       pathway.OrderAscending.String(),
		Kinetiscope:        Kinetiscope{StartLine: DefaultStartLine, EndLine: DefaultEndLine},
		Log:                logging.LogConfig{Level: "info", Format: "console", OutputPaths: []string{"stderr"}},
	}
}

// Validate checks value ranges. Paths are checked by the commands that
// need them.
func (w *Workflow) Validate() error {
	var problems []string
	if w.FrequencyThreshold < 0 {
		problems = append(problems, fmt.Sprintf("frequency_threshold must be >= 0, got %v", w.FrequencyThreshold))
	}
	if w.TopPathways < 0 {
		problems = append(problems, fmt.Sprintf("top_pathways must be >= 0, got %d", w.TopPathways))
	}
	if _, err := pathway.ParseOrder(w.PathwayOrder); err != nil {
		problems = append(problems, fmt.Sprintf("pathway_order %q is not ascending or frequency-desc", w.PathwayOrder))
	}
	if w.Kinetiscope.StartLine < 1 {
		problems = append(problems, fmt.Sprintf("kinetiscope.start_line must be >= 1, got %d", w.Kinetiscope.StartLine))
	}
	if w.Kinetiscope.EndLine < 0 {
		problems = append(problems, fmt.Sprintf("kinetiscope.end_line must be >= 0, got %d", w.Kinetiscope.EndLine))
	}
	if strings.TrimSpace(w.OutputFile) == "" {
		problems = append(problems, "output_file is empty")
	}
	if _, err := logging.ParseLevel(w.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(problems, "; "), internalerr.ErrInvalidConfig)
	}
	return nil
}
