package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"arcrun/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	RootsConfig struct {
		Ambiguity common.RootAmbiguity `yaml:"ambiguity" validate:"gte=0"`
	}

	ImportConfig struct {
		ProjectFile string      `yaml:"project_file" validate:"required"`
		AssetsDir   string      `yaml:"assets_dir"`
		ProbeImages bool        `yaml:"probe_images"`
		Roots       RootsConfig `yaml:"roots"`
	}

	RunnerConfig struct {
		DelayTicks   int `yaml:"delay_ticks" validate:"gte=0,lte=100"`
		HistoryDepth int `yaml:"history_depth" validate:"gte=0"`
	}

	PlayConfig struct {
		LabelLength     int    `yaml:"label_length" validate:"min=8"`
		ElementTemplate string `yaml:"element_template" validate:"required"`
		ChoiceTemplate  string `yaml:"choice_template" validate:"required"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Import    ImportConfig   `yaml:"import"`
		Runner    RunnerConfig   `yaml:"runner"`
		Play      PlayConfig     `yaml:"play"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above, host expands these templates
	// itself for every rendered element
	ElementTemplateFieldName TemplateFieldName = "element_template"
	ChoiceTemplateFieldName  TemplateFieldName = "choice_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(ElementTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(ChoiceTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Only fields we defined are allowed, so no plain yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
