package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"github.com/agentic-research/restcli/api"
	"github.com/agentic-research/restcli/internal/format"
)

// DefaultPath is where the config file is read from when -f is not given.
const DefaultPath = "/etc/restcli/config.yaml"

// Pair holds two words, written in config as "first,second".
type Pair [2]string

type DisplaySettings struct {
	IndentWidth int  `mapstructure:"indent_width"`
	YesNo       Pair `mapstructure:"yes_no"`
	Singular    bool `mapstructure:"singular"`
	ListMarkers Pair `mapstructure:"list_markers"`
}

// Settings are the runtime knobs that are not part of the endpoint schema.
type Settings struct {
	URL     string            `mapstructure:"url"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
	Display DisplaySettings   `mapstructure:"display"`
}

type Config struct {
	Schema   api.Config
	Settings Settings
}

// BaseURL is the settings override if present, else the schema URL.
func (c *Config) BaseURL() string {
	if c.Settings.URL != "" {
		return c.Settings.URL
	}
	return c.Schema.URL
}

// Options converts the display settings into renderer options.
func (d DisplaySettings) Options() format.Options {
	opts := format.DefaultOptions()
	if d.IndentWidth > 0 {
		opts.IndentWidth = d.IndentWidth
	}
	opts.YesNo = d.YesNo
	opts.ListMarkers = d.ListMarkers
	if d.Singular {
		opts.LabelTransform = format.Singularize
	}
	return opts
}

// document is the YAML/JSON file layout.
type document struct {
	api.Config
	Settings map[string]any `json:"settings,omitempty"`
}

// Load reads the config file at path from fs. Files ending in .hcl are
// parsed as HCL; anything else as YAML (which includes JSON). Settings are
// taken from the file's settings section and RESTCLI_* environment
// variables, over built-in defaults.
func Load(fs billy.Filesystem, path string) (*Config, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var schema api.Config
	var settings map[string]any
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		schema, settings, err = parseHCL(path, data)
	} else {
		schema, settings, err = parseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	s, err := loadSettings(settings)
	if err != nil {
		return nil, err
	}
	cfg := &Config{Schema: schema, Settings: s}
	if cfg.Schema.URL == "" {
		cfg.Schema.URL = s.URL
	}
	if err := cfg.Schema.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseYAML(data []byte) (api.Config, map[string]any, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return api.Config{}, nil, err
	}
	return doc.Config, doc.Settings, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("url", "")
	v.SetDefault("timeout", "30s")
	v.SetDefault("headers", map[string]string{})
	v.SetDefault("display.indent_width", 2)
	v.SetDefault("display.yes_no", "yes,no")
	v.SetDefault("display.singular", false)
	v.SetDefault("display.list_markers", "{,}")

	v.SetEnvPrefix("RESTCLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func loadSettings(fromFile map[string]any) (Settings, error) {
	v := newViper()
	if len(fromFile) > 0 {
		if err := v.MergeConfigMap(fromFile); err != nil {
			return Settings{}, fmt.Errorf("failed to merge settings: %w", err)
		}
	}

	var s Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToPairHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return s, nil
}

func stringToPairHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(Pair{}) || f.Kind() != reflect.String {
			return data, nil
		}
		first, second, ok := strings.Cut(data.(string), ",")
		if !ok || strings.Contains(second, ",") {
			return nil, fmt.Errorf("expected two comma-separated words, got %q", data)
		}
		return Pair{strings.TrimSpace(first), strings.TrimSpace(second)}, nil
	}
}

// HCL layout: url, repeated api "<path>" blocks and an optional settings
// block.
type hclDocument struct {
	URL      string         `hcl:"url,optional"`
	APIs     []api.Endpoint `hcl:"api,block"`
	Settings *hclSettings   `hcl:"settings,block"`
}

type hclSettings struct {
	URL     *string           `hcl:"url,optional"`
	Timeout *string           `hcl:"timeout,optional"`
	Headers map[string]string `hcl:"headers,optional"`
	Display *hclDisplay       `hcl:"display,block"`
}

type hclDisplay struct {
	IndentWidth *int    `hcl:"indent_width,optional"`
	YesNo       *string `hcl:"yes_no,optional"`
	Singular    *bool   `hcl:"singular,optional"`
	ListMarkers *string `hcl:"list_markers,optional"`
}

func parseHCL(path string, data []byte) (api.Config, map[string]any, error) {
	var doc hclDocument
	if err := hclsimple.Decode(filepath.Base(path), data, nil, &doc); err != nil {
		return api.Config{}, nil, err
	}
	schema := api.Config{URL: doc.URL, APIs: doc.APIs}
	if doc.Settings == nil {
		return schema, nil, nil
	}

	settings := map[string]any{}
	set := func(m map[string]any, key string, v any) {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return
			}
			v = rv.Elem().Interface()
		}
		m[key] = v
	}
	set(settings, "url", doc.Settings.URL)
	set(settings, "timeout", doc.Settings.Timeout)
	if doc.Settings.Headers != nil {
		settings["headers"] = doc.Settings.Headers
	}
	if d := doc.Settings.Display; d != nil {
		display := map[string]any{}
		set(display, "indent_width", d.IndentWidth)
		set(display, "yes_no", d.YesNo)
		set(display, "singular", d.Singular)
		set(display, "list_markers", d.ListMarkers)
		settings["display"] = display
	}
	return schema, settings, nil
}
