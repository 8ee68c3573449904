package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"hilite/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	AnnotationConfig struct {
		Policy        common.Policy     `yaml:"policy" validate:"gte=0,lte=1"`
		Strategy      common.Strategy   `yaml:"strategy" validate:"gte=0,lte=1"`
		Offsets       common.OffsetUnit `yaml:"offsets" validate:"gte=0,lte=2"`
		KeepEmpty     bool              `yaml:"keep_empty"`
		EscapeText    bool              `yaml:"escape_text"`
		RelationClass string            `yaml:"relation_class" validate:"required"`
		SlugFallback  bool              `yaml:"slug_fallback"`
		Classes       map[string]string `yaml:"classes" validate:"dive,required"`
	}

	OutputConfig struct {
		Page          bool   `yaml:"page"`
		TitleTemplate string `yaml:"title_template,omitempty"`
		Template      string `yaml:"template,omitempty" validate:"omitempty,filepath"`
		Stylesheet    string `yaml:"stylesheet,omitempty" validate:"omitempty,filepath"`
	}

	StoreConfig struct {
		Path string `yaml:"path,omitempty" validate:"omitempty,filepath"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Annotation AnnotationConfig `yaml:"annotation"`
		Output     OutputConfig     `yaml:"output"`
		Store      StoreConfig      `yaml:"store"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

// TitleTemplateFieldName names field holding page title template, it is
// expanded per document, not when configuration is processed.
const TitleTemplateFieldName = "title_template"

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(TitleTemplateFieldName),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Only fields defined above are allowed, so yaml.Unmarshal cannot be used
	// directly
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation. Classes from the file extend default
// classes table.
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
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
