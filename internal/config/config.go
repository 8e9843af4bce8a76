// Package config loads the xrfcorrect configuration from defaults, an
// optional YAML file, XRF_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-xrf/dsp/snip"
	"github.com/cwbudde/algo-xrf/xrf/correct"
	"github.com/cwbudde/algo-xrf/xrf/pileup"
)

// Name is the base name of the configuration file and directory.
const Name = "xrfcorrect"

// EnvPrefix prefixes environment variable overrides, e.g. XRF_SNIP_FWHM.
const EnvPrefix = "XRF"

// Config is the application configuration.
type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	SNIP      SNIPConfig      `mapstructure:"snip"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Capillary CapillaryConfig `mapstructure:"capillary"`
	Pileup    PileupConfig    `mapstructure:"pileup"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Output    OutputConfig    `mapstructure:"output"`
}

// SNIPConfig selects the background estimator used by SCALEDSNIP.
type SNIPConfig struct {
	Variant    string `mapstructure:"variant"`
	FWHM       int    `mapstructure:"fwhm"`
	Reductions int    `mapstructure:"reductions"`
	Iterations int    `mapstructure:"iterations"`
}

// PipelineConfig enables the optional correction stages.
type PipelineConfig struct {
	Pileup    bool `mapstructure:"pileup"`
	Capillary bool `mapstructure:"capillary"`
}

// CapillaryConfig configures the polycapillary background remover.
type CapillaryConfig struct {
	Points int `mapstructure:"points"`
	Margin int `mapstructure:"margin"`
}

// PileupConfig configures pile-up correction.
type PileupConfig struct {
	Warmup int `mapstructure:"warmup"`
}

// BatchConfig configures the batch driver. Zero concurrency means one
// worker per CPU.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// OutputConfig controls what is written after a run.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
	Plot   bool   `mapstructure:"plot"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("snip.variant", snip.VariantFastConvolution.String())
	v.SetDefault("snip.fwhm", correct.DefaultFWHM)
	v.SetDefault("snip.reductions", correct.DefaultReductions)
	v.SetDefault("snip.iterations", correct.DefaultIterations)

	v.SetDefault("pipeline.pileup", true)
	v.SetDefault("pipeline.capillary", true)

	v.SetDefault("capillary.points", 40)
	v.SetDefault("capillary.margin", 50)

	v.SetDefault("pileup.warmup", 100)

	v.SetDefault("batch.concurrency", 0)

	v.SetDefault("output.format", "csv")
	v.SetDefault("output.dir", "")
	v.SetDefault("output.plot", false)
}

// New returns a viper instance with defaults and environment overrides. If
// file is empty, xrfcorrect.yaml is searched in the working directory and
// the user configuration directory; a missing file is not an error.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, Name))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return v, nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"variant":     "snip.variant",
	"fwhm":        "snip.fwhm",
	"reductions":  "snip.reductions",
	"iterations":  "snip.iterations",
	"pileup":      "pipeline.pileup",
	"capillary":   "pipeline.capillary",
	"points":      "capillary.points",
	"margin":      "capillary.margin",
	"warmup":      "pileup.warmup",
	"concurrency": "batch.concurrency",
	"format":      "output.format",
	"out":         "output.dir",
	"plot":        "output.plot",
}

// BindFlags binds every known flag present in fs to its configuration key,
// so explicitly set flags override file and environment values.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind --%s: %w", name, err)
		}
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if _, err := snip.ParseVariant(c.SNIP.Variant); err != nil {
		return fmt.Errorf("config: snip.variant: %w", err)
	}
	if c.SNIP.FWHM < 1 {
		return fmt.Errorf("config: snip.fwhm must be >= 1: %d", c.SNIP.FWHM)
	}
	if c.SNIP.Reductions < 0 || c.SNIP.Iterations < 0 {
		return fmt.Errorf("config: snip.reductions and snip.iterations must be >= 0")
	}
	if c.Capillary.Points < 4 {
		return fmt.Errorf("config: capillary.points must be >= 4: %d", c.Capillary.Points)
	}
	if c.Capillary.Margin < 0 {
		return fmt.Errorf("config: capillary.margin must be >= 0: %d", c.Capillary.Margin)
	}
	if c.Pileup.Warmup < 0 {
		return fmt.Errorf("config: pileup.warmup must be >= 0: %d", c.Pileup.Warmup)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("config: batch.concurrency must be >= 0: %d", c.Batch.Concurrency)
	}
	switch c.Output.Format {
	case "csv", "yaml":
	default:
		return fmt.Errorf("config: output.format must be csv or yaml: %q", c.Output.Format)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Estimator builds the configured SNIP estimator.
func (c *Config) Estimator() (snip.Estimator, error) {
	variant, err := snip.ParseVariant(c.SNIP.Variant)
	if err != nil {
		return nil, err
	}
	return snip.New(variant,
		snip.WithFWHM(c.SNIP.FWHM),
		snip.WithReductions(c.SNIP.Reductions),
		snip.WithIterations(c.SNIP.Iterations),
	)
}

// BuildPipeline builds the configured correction pipeline.
func (c *Config) BuildPipeline() (*correct.Pipeline, error) {
	est, err := c.Estimator()
	if err != nil {
		return nil, err
	}
	return correct.NewPipeline(
		correct.WithEstimator(est),
		correct.WithPileup(c.Pipeline.Pileup, pileup.WithWarmup(c.Pileup.Warmup)),
		correct.WithCapillary(c.Pipeline.Capillary,
			correct.WithPoints(c.Capillary.Points),
			correct.WithMargin(c.Capillary.Margin),
		),
	)
}
