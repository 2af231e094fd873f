// Package config layers defaults, an optional YAML file and environment
// variables into the runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when present and no explicit path is given.
const DefaultFile = "sermonsearch.yaml"

// DefaultCorpusFiles are tried in order; the first one that exists wins.
var DefaultCorpusFiles = []string{
	"sermons.json.gz",
	"sermons.json",
	"PASTOR_BOB_MINIMAL.json.gz",
	"PASTOR_BOB_MINIMAL.json",
	"PASTOR_BOB_SERMONS_COMPLETE_CLEAN.json.gz",
	"PASTOR_BOB_SERMONS_COMPLETE_CLEAN.json",
}

type Config struct {
	Server ServerConfig `yaml:"server" json:"server"`
	Corpus CorpusConfig `yaml:"corpus" json:"corpus"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Search SearchConfig `yaml:"search" json:"search"`

	// Presets holds the built-in presets plus any defined in the file.
	Presets map[string]Engine `yaml:"-" json:"presets"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type CorpusConfig struct {
	// Paths are candidate corpus files, the first existing one is loaded.
	Paths []string `yaml:"paths" json:"paths"`
	// Explicit means a missing file is an error instead of an empty corpus.
	Explicit bool `yaml:"-" json:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type SearchConfig struct {
	Preset          string `yaml:"preset" json:"preset"`
	MaxResults      int    `yaml:"max_results" json:"max_results"`
	MaxResultsLimit int    `yaml:"max_results_limit" json:"max_results_limit"`
	CacheSize       int    `yaml:"cache_size" json:"cache_size"`
	Workers         int    `yaml:"workers" json:"workers"`
}

// fileConfig is the on-disk shape; presets stay as nodes so they can be
// decoded on top of their base preset.
type fileConfig struct {
	Server  ServerConfig         `yaml:"server"`
	Corpus  CorpusConfig         `yaml:"corpus"`
	Log     LogConfig            `yaml:"log"`
	Search  SearchConfig         `yaml:"search"`
	Presets map[string]yaml.Node `yaml:"presets"`
}

type presetHeader struct {
	Base string `yaml:"base"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":5000"},
		Corpus: CorpusConfig{Paths: append([]string(nil), DefaultCorpusFiles...)},
		Log:    LogConfig{Level: "info", Format: "auto"},
		Search: SearchConfig{
			Preset:          PresetTimestamps,
			MaxResults:      10,
			MaxResultsLimit: 100,
			CacheSize:       512,
			Workers:         runtime.NumCPU(),
		},
		Presets: Presets(),
	}
}

// Load returns defaults overlaid with the YAML file at path. An empty path
// reads DefaultFile if it exists.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(b); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(b []byte) error {
	fc := fileConfig{Server: c.Server, Log: c.Log, Search: c.Search}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return err
	}
	c.Server, c.Log, c.Search = fc.Server, fc.Log, fc.Search
	if len(fc.Corpus.Paths) > 0 {
		c.Corpus = CorpusConfig{Paths: fc.Corpus.Paths, Explicit: true}
	}

	names := make([]string, 0, len(fc.Presets))
	for name := range fc.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		node := fc.Presets[name]
		var hdr presetHeader
		if err := node.Decode(&hdr); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
		base := hdr.Base
		if base == "" {
			base = name
		}
		eng, ok := c.Presets[base]
		if !ok {
			eng, ok = Presets()[base]
		}
		if !ok {
			if hdr.Base != "" {
				return fmt.Errorf("preset %q: unknown base %q", name, hdr.Base)
			}
			eng = baseEngine()
		}
		if err := node.Decode(&eng); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
		c.Presets[name] = eng
	}
	return nil
}

// ApplyEnv overlays environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := getenv("SERMONSEARCH_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("SERMONSEARCH_CORPUS"); v != "" {
		c.Corpus.Paths = splitList(v)
		c.Corpus.Explicit = true
	}
	if v := getenv("SERMONSEARCH_PRESET"); v != "" {
		c.Search.Preset = v
	}
	if v := getenv("SERMONSEARCH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("SERMONSEARCH_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Engine returns the named preset, or the default preset for "".
func (c Config) Engine(name string) (Engine, error) {
	if name == "" {
		name = c.Search.Preset
	}
	e, ok := c.Presets[name]
	if !ok {
		return Engine{}, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(c.PresetNames(), ", "))
	}
	return e, nil
}

func (c Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for n := range c.Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server addr is empty")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("max_results must be > 0")
	}
	if c.Search.MaxResultsLimit < c.Search.MaxResults {
		return fmt.Errorf("max_results_limit must be >= max_results")
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0")
	}
	if c.Search.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if _, ok := c.Presets[c.Search.Preset]; !ok {
		return fmt.Errorf("unknown preset %q", c.Search.Preset)
	}
	for _, name := range c.PresetNames() {
		if err := c.Presets[name].Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
