package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
)

// stepEntry is the on-disk shape of one [[step]] table. Exactly one of the
// check tables must be present.
type stepEntry struct {
	Name                  string                     `toml:"name"`
	SpecialValueCheck     *SpecialValueCheckConf     `toml:"special_value_check"`
	RangeCheck            *RangeCheckConf            `toml:"range_check"`
	RangeCheckDynamic     *RangeCheckDynamicConf     `toml:"range_check_dynamic"`
	StepCheck             *StepCheckConf             `toml:"step_check"`
	SpikeCheck            *SpikeCheckConf            `toml:"spike_check"`
	FlatlineCheck         *FlatlineCheckConf         `toml:"flatline_check"`
	BuddyCheck            *BuddyCheckConf            `toml:"buddy_check"`
	Sct                   *SctConf                   `toml:"sct"`
	ModelConsistencyCheck *ModelConsistencyCheckConf `toml:"model_consistency_check"`
}

type pipelineFile struct {
	Steps []stepEntry `toml:"step"`
}

func (e *stepEntry) conf() (CheckConf, error) {
	var confs []CheckConf
	if e.SpecialValueCheck != nil {
		confs = append(confs, *e.SpecialValueCheck)
	}
	if e.RangeCheck != nil {
		confs = append(confs, *e.RangeCheck)
	}
	if e.RangeCheckDynamic != nil {
		confs = append(confs, *e.RangeCheckDynamic)
	}
	if e.StepCheck != nil {
		confs = append(confs, *e.StepCheck)
	}
	if e.SpikeCheck != nil {
		confs = append(confs, *e.SpikeCheck)
	}
	if e.FlatlineCheck != nil {
		confs = append(confs, *e.FlatlineCheck)
	}
	if e.BuddyCheck != nil {
		confs = append(confs, *e.BuddyCheck)
	}
	if e.Sct != nil {
		confs = append(confs, *e.Sct)
	}
	if e.ModelConsistencyCheck != nil {
		confs = append(confs, *e.ModelConsistencyCheck)
	}

	switch len(confs) {
	case 0:
		return nil, fmt.Errorf("step %q names no known check", e.Name)
	case 1:
		return confs[0], nil
	default:
		return nil, fmt.Errorf("step %q configures %d checks, want exactly 1", e.Name, len(confs))
	}
}

// Parse decodes one pipeline definition. Unknown check kinds and unknown
// fields are errors, not silently dropped configuration.
func Parse(data []byte) (*Pipeline, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var f pipelineFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding pipeline: %w", err)
	}

	steps := make([]Step, 0, len(f.Steps))
	for i := range f.Steps {
		conf, err := f.Steps[i].conf()
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Name: f.Steps[i].Name, Check: conf})
	}

	return New(steps)
}

// Load reads every *.toml file in dir into a map of pipelines keyed by
// filename sans extension. Directory entries that are not regular files,
// and filenames that are not valid UTF-8, fail the load.
func Load(dir string) (map[string]*Pipeline, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline directory: %w", err)
	}

	pipelines := make(map[string]*Pipeline, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			return nil, fmt.Errorf("pipeline directory entry %q is not a file", entry.Name())
		}
		if !utf8.ValidString(entry.Name()) {
			return nil, fmt.Errorf("pipeline filename is not valid UTF-8")
		}
		if !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".toml")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		p, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", name, err)
		}
		pipelines[name] = p
	}

	return pipelines, nil
}
