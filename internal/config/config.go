package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/azadio/internal/iodata"
	"github.com/danmuck/azadio/internal/problem"
	"github.com/rs/zerolog/log"
)

const (
	SupportedConfigVersion = 1.0
	DefaultTimeLimit       = 10.0 // seconds
	DefaultMemoryLimit     = 256  // megabytes
)

var ErrInvalidConfig = errors.New("config: invalid problem config")

// Solution categories, keyed by the label a solution is expected to earn.
const (
	CategoryAC   = "ac"
	CategoryWA   = "wa"
	CategoryTLE  = "tle"
	CategoryFail = "fail"
)

type ProblemConfig struct {
	Name         string          `toml:"name"`
	Author       string          `toml:"author"`
	Precision    float64         `toml:"precision"`
	MaxDimension int             `toml:"max_dimension"`
	Parameters   []ParamConfig   `toml:"parameters"`
	Return       ParamConfig     `toml:"return"`
	Limits       LimitsConfig    `toml:"limits"`
	Solutions    SolutionsConfig `toml:"solutions"`
	Version      VersionConfig   `toml:"version"`
}

type ParamConfig struct {
	Name      string `toml:"name,omitempty"`
	Type      string `toml:"type"`
	Dimension int    `toml:"dimension"`
}

type LimitsConfig struct {
	Time   float64 `toml:"time"`
	Memory int     `toml:"memory"`
}

type SolutionsConfig struct {
	AC   []string `toml:"ac"`
	WA   []string `toml:"wa"`
	TLE  []string `toml:"tle"`
	Fail []string `toml:"fail"`
}

type VersionConfig struct {
	Problem float64 `toml:"problem"`
	Config  float64 `toml:"config"`
}

// DefaultProblemConfig is the starting state written by Template.
func DefaultProblemConfig() ProblemConfig {
	return ProblemConfig{
		Name:         "none",
		Author:       "unknown",
		Precision:    iodata.DefaultFloatPrecision,
		MaxDimension: iodata.DefaultMaxDimension,
		Parameters: []ParamConfig{
			{Name: "a", Type: "int", Dimension: 1},
			{Name: "b", Type: "str", Dimension: 0},
		},
		Return: ParamConfig{Type: "float", Dimension: 2},
		Limits: LimitsConfig{Time: DefaultTimeLimit, Memory: DefaultMemoryLimit},
		Solutions: SolutionsConfig{
			AC:   []string{},
			WA:   []string{},
			TLE:  []string{},
			Fail: []string{},
		},
		Version: VersionConfig{Problem: 1.0, Config: SupportedConfigVersion},
	}
}

// LoadProblemConfig decodes path and fills every scalar the file leaves out.
// Unknown keys are an error.
func LoadProblemConfig(path string) (ProblemConfig, error) {
	var cfg ProblemConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ProblemConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return ProblemConfig{}, fmt.Errorf("%w (%s): unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	defaults := DefaultProblemConfig()
	if !meta.IsDefined("name") {
		cfg.Name = defaults.Name
	}
	if !meta.IsDefined("author") {
		cfg.Author = defaults.Author
	}
	if !meta.IsDefined("precision") {
		cfg.Precision = defaults.Precision
	}
	if !meta.IsDefined("max_dimension") {
		cfg.MaxDimension = defaults.MaxDimension
	}
	if !meta.IsDefined("limits", "time") {
		cfg.Limits.Time = defaults.Limits.Time
	}
	if !meta.IsDefined("limits", "memory") {
		cfg.Limits.Memory = defaults.Limits.Memory
	}
	if !meta.IsDefined("version", "config") {
		cfg.Version.Config = defaults.Version.Config
	}
	if !meta.IsDefined("version", "problem") {
		cfg.Version.Problem = defaults.Version.Problem
	}

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("config validation failed")
		return ProblemConfig{}, err
	}
	log.Debug().Str("path", path).Str("name", cfg.Name).Int("parameters", len(cfg.Parameters)).Msg("config loaded")
	return cfg, nil
}

// Registry builds the type registry this problem validates against.
func (c ProblemConfig) Registry() (*iodata.Registry, error) {
	if c.MaxDimension == iodata.DefaultMaxDimension {
		return iodata.Default(), nil
	}
	return iodata.NewRegistry(iodata.BuiltinTypes(), iodata.BuiltinAliases(), iodata.Options{MaxDimension: c.MaxDimension})
}

func (c ProblemConfig) Signature() problem.Signature {
	params := make([]problem.Param, 0, len(c.Parameters))
	for _, p := range c.Parameters {
		params = append(params, problem.Param{Name: strings.TrimSpace(p.Name), Type: p.Type, Dimension: p.Dimension})
	}
	return problem.Signature{
		Parameters: params,
		Return:     problem.Param{Type: c.Return.Type, Dimension: c.Return.Dimension},
	}
}

func (c ProblemConfig) TimeLimit() time.Duration {
	return time.Duration(c.Limits.Time * float64(time.Second))
}

func (c ProblemConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidConfig)
	}
	if c.Version.Config != SupportedConfigVersion {
		return fmt.Errorf("%w: config version %g not supported", ErrInvalidConfig, c.Version.Config)
	}
	if !(c.Precision > 0) || math.IsInf(c.Precision, 0) {
		return fmt.Errorf("%w: precision %g must be positive", ErrInvalidConfig, c.Precision)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("%w: max_dimension %d is negative", ErrInvalidConfig, c.MaxDimension)
	}
	if !(c.Limits.Time > 0) {
		return fmt.Errorf("%w: limits.time %g must be positive", ErrInvalidConfig, c.Limits.Time)
	}
	if c.Limits.Memory <= 0 {
		return fmt.Errorf("%w: limits.memory %d must be positive", ErrInvalidConfig, c.Limits.Memory)
	}
	for cat, paths := range c.Solutions.byCategory() {
		for i, p := range paths {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: solutions.%s[%d] is empty", ErrInvalidConfig, cat, i)
			}
		}
	}
	reg, err := c.Registry()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Signature().Validate(reg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (s SolutionsConfig) byCategory() map[string][]string {
	return map[string][]string{
		CategoryAC:   s.AC,
		CategoryWA:   s.WA,
		CategoryTLE:  s.TLE,
		CategoryFail: s.Fail,
	}
}
