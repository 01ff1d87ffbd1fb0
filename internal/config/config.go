// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the adxl375 command configuration from flags,
// environment and a yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GermanBionicSystems/accel/adxl375"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

const (
	DefaultAppName      = "adxl375"
	DefaultConfigName   = "config"
	DefaultRateHz       = 100
	DefaultPollInterval = 20
	DefaultFormat       = FormatCSV
	DefaultPlotDuration = 1000
	DefaultPlotOutput   = "adxl375.png"
	DefaultPlotWidth    = 1024
	DefaultPlotHeight   = 512

	EnvConfig = "ADXL375_CONFIG"

	FormatCSV   = "csv"
	FormatGauge = "gauge"
)

var userHomeDir, _ = os.UserHomeDir()

// DefaultConfig is where init writes the template.
var DefaultConfig = filepath.Join(userHomeDir, ".config", DefaultAppName, DefaultConfigName+".yaml")

var searchPaths = []string{
	filepath.Join(userHomeDir, ".config", DefaultAppName),
	"/etc/" + DefaultAppName,
	"./",
}

type DeviceOpt struct {
	// SPIPort is the spireg name of the port; empty selects the first one.
	SPIPort string `mapstructure:"spi_port" yaml:"spi_port"`
	// CSPin is the gpioreg name of a GPIO chip select; empty uses the port's.
	CSPin        string `mapstructure:"cs_pin" yaml:"cs_pin"`
	RateHz       int    `mapstructure:"rate_hz" yaml:"rate_hz"`
	TimeOffsetUs int64  `mapstructure:"time_offset_us" yaml:"time_offset_us"`
}

type StreamOpt struct {
	PollIntervalMs int    `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
	Format         string `mapstructure:"format" yaml:"format"`
}

type PlotOpt struct {
	DurationMs int    `mapstructure:"duration_ms" yaml:"duration_ms"`
	Output     string `mapstructure:"output" yaml:"output"`
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
}

// Opt is the complete configuration.
type Opt struct {
	Device DeviceOpt `mapstructure:"device" yaml:"device"`
	Stream StreamOpt `mapstructure:"stream" yaml:"stream"`
	Plot   PlotOpt   `mapstructure:"plot" yaml:"plot"`
	Debug  bool      `mapstructure:"debug" yaml:"debug"`
}

// Desc pairs the parsed options with the viper instance they came from.
type Desc struct {
	Opt   Opt
	Viper *viper.Viper
}

func NewDesc() Desc {
	return Desc{Opt: NewOpt()}
}

func NewOpt() Opt {
	return Opt{
		Device: DeviceOpt{
			RateHz: DefaultRateHz,
		},
		Stream: StreamOpt{
			PollIntervalMs: DefaultPollInterval,
			Format:         DefaultFormat,
		},
		Plot: PlotOpt{
			DurationMs: DefaultPlotDuration,
			Output:     DefaultPlotOutput,
			Width:      DefaultPlotWidth,
			Height:     DefaultPlotHeight,
		},
	}
}

// flagKeys maps configuration keys to the command flags overriding them.
var flagKeys = map[string]string{
	"device.spi_port":         "spi",
	"device.cs_pin":           "cs",
	"device.rate_hz":          "rate",
	"device.time_offset_us":   "offset",
	"stream.poll_interval_ms": "interval",
	"stream.format":           "format",
	"plot.duration_ms":        "duration",
	"plot.output":             "output",
	"debug":                   "debug",
}

// Parse fills o from, by increasing priority, defaults, the config file,
// environment variables and the flags of cmd.
//
// The config file is the --config flag, then $ADXL375_CONFIG, then
// config.yaml in $HOME/.config/adxl375, /etc/adxl375 and the current
// directory. A missing config file is not an error.
func (o *Desc) Parse(cmd *cobra.Command) error {
	v := viper.New()
	def := NewOpt()
	v.SetDefault("device.spi_port", def.Device.SPIPort)
	v.SetDefault("device.cs_pin", def.Device.CSPin)
	v.SetDefault("device.rate_hz", def.Device.RateHz)
	v.SetDefault("device.time_offset_us", def.Device.TimeOffsetUs)
	v.SetDefault("stream.poll_interval_ms", def.Stream.PollIntervalMs)
	v.SetDefault("stream.format", def.Stream.Format)
	v.SetDefault("plot.duration_ms", def.Plot.DurationMs)
	v.SetDefault("plot.output", def.Plot.Output)
	v.SetDefault("plot.width", def.Plot.Width)
	v.SetDefault("plot.height", def.Plot.Height)
	v.SetDefault("debug", def.Debug)

	explicit := false
	if f, err := cmd.Flags().GetString("config"); err == nil && f != "" {
		v.SetConfigFile(f)
		explicit = true
	} else if f := os.Getenv(EnvConfig); f != "" {
		v.SetConfigFile(f)
		explicit = true
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(DefaultAppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("config: bind %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err == nil {
		log.Debugln("using config file:", v.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
		log.Debugln("no config file found, using defaults")
	}

	if err := v.Unmarshal(&o.Opt); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	o.Viper = v
	return o.Opt.Validate()
}

// PostParse applies the logging level.
func (o *Desc) PostParse() {
	if o.Opt.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Validate reports the first invalid option.
func (o *Opt) Validate() error {
	if _, err := o.Rate(); err != nil {
		return err
	}
	if o.Stream.PollIntervalMs <= 0 {
		return fmt.Errorf("config: stream.poll_interval_ms must be positive, got %d", o.Stream.PollIntervalMs)
	}
	switch o.Stream.Format {
	case FormatCSV, FormatGauge:
	default:
		return fmt.Errorf("config: unknown stream.format %q", o.Stream.Format)
	}
	if o.Plot.DurationMs <= 0 {
		return fmt.Errorf("config: plot.duration_ms must be positive, got %d", o.Plot.DurationMs)
	}
	if o.Plot.Output == "" {
		return errors.New("config: plot.output is empty")
	}
	return nil
}

// Rate returns the adxl375 rate code for device.rate_hz.
func (o *Opt) Rate() (adxl375.Rate, error) {
	r, err := adxl375.RateFor(physic.Frequency(o.Device.RateHz) * physic.Hertz)
	if err != nil {
		return 0, fmt.Errorf("config: device.rate_hz: %w", err)
	}
	return r, nil
}

// TimeOffset returns device.time_offset_us as a duration.
func (o *Opt) TimeOffset() time.Duration {
	return time.Duration(o.Device.TimeOffsetUs) * time.Microsecond
}

// PollInterval returns stream.poll_interval_ms as a duration.
func (o *Opt) PollInterval() time.Duration {
	return time.Duration(o.Stream.PollIntervalMs) * time.Millisecond
}

// PlotDuration returns plot.duration_ms as a duration.
func (o *Opt) PlotDuration() time.Duration {
	return time.Duration(o.Plot.DurationMs) * time.Millisecond
}

// Dump writes the yaml form of opt to path. An existing file is only
// replaced when overwrite is set.
func Dump(opt Opt, path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("config: %s already exists", path)
	}
	b, err := yaml.Marshal(opt)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads a yaml configuration file on top of the defaults.
func Load(path string) (Opt, error) {
	opt := NewOpt()
	b, err := os.ReadFile(path)
	if err != nil {
		return opt, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, &opt); err != nil {
		return opt, fmt.Errorf("config: %s: %w", path, err)
	}
	return opt, opt.Validate()
}

// AddFlags registers the flags Parse binds. Commands only need the flags
// they use; unregistered ones are skipped by Parse.
func AddFlags(cmd *cobra.Command) {
	def := NewOpt()
	cmd.Flags().String("config", "", "configuration file path")
	cmd.Flags().String("spi", def.Device.SPIPort, "SPI port name, empty for the first one")
	cmd.Flags().String("cs", def.Device.CSPin, "GPIO driving chip select, empty for the port's own")
	cmd.Flags().IntP("rate", "r", def.Device.RateHz, "output data rate in Hz (100, 200, 400, 800, 1600 or 3200)")
	cmd.Flags().Int64("offset", def.Device.TimeOffsetUs, "microseconds added to every timestamp")
	cmd.Flags().Bool("debug", def.Debug, "toggle debug logging")
}
