// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cmd implements the adxl375 command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/GermanBionicSystems/accel/adxl375"
	"github.com/GermanBionicSystems/accel/chart"
	"github.com/GermanBionicSystems/accel/gauge"
	"github.com/GermanBionicSystems/accel/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var RootCmd = &cobra.Command{
	Use:   "adxl375",
	Short: "configure and read an ADXL375 accelerometer over SPI",
	Long:  "configure and read an ADXL375 accelerometer over SPI",
}

// parse loads the configuration for cmd and applies the log level.
func parse(cmd *cobra.Command) (*config.Opt, error) {
	desc := config.NewDesc()
	if err := desc.Parse(cmd); err != nil {
		return nil, err
	}
	desc.PostParse()
	return &desc.Opt, nil
}

// openInit opens the device and runs its verified initialization.
func openInit(opt *config.Opt) (*session, error) {
	s, err := open(opt)
	if err != nil {
		return nil, err
	}
	if err := s.dev.Init(); err != nil {
		var verr *adxl375.VerifyError
		if errors.As(err, &verr) {
			log.WithFields(log.Fields{
				"register": fmt.Sprintf("%#02x", byte(verr.Reg)),
				"want":     fmt.Sprintf("%#02x", verr.Want),
				"got":      fmt.Sprintf("%#02x", verr.Got),
			}).Errorln("configuration did not read back")
		}
		return nil, multierr.Combine(err, s.Close())
	}
	log.Infof("%s initialized, %.1fµs between samples", s.dev, s.dev.Interval())
	return s, nil
}

func InitCmdRunE(cmd *cobra.Command, _ []string) error {
	printFlag, _ := cmd.Flags().GetBool("print")
	outputPath, _ := cmd.Flags().GetString("output")
	overwriteFlag, _ := cmd.Flags().GetBool("yes")

	opt := config.NewOpt()
	if printFlag {
		b, err := yaml.Marshal(opt)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	}
	if err := config.Dump(opt, outputPath, overwriteFlag); err != nil {
		return err
	}
	if _, err := config.Load(outputPath); err != nil {
		return err
	}
	log.Infoln("configuration written to", outputPath)
	return nil
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfig, "specify output path")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init create a configuration template",
	Long: `init create a configuration template.
If --print flag is present, the configuration will be printed to stdout.
If --output / -o flag is present, the configuration will be saved to the path specified
Otherwise init will output configuration file to $HOME/.config/adxl375/config.yaml
If --yes / -y flag is present, an existing file is overwritten
`,
	Example: `  adxl375 init --print
  adxl375 init -o /etc/adxl375/config.yaml -y`,
	RunE: InitCmdRunE,
}

func ProbeCmdRunE(cmd *cobra.Command, _ []string) (err error) {
	opt, err := parse(cmd)
	if err != nil {
		return err
	}
	s, err := open(opt)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()
	id, err := s.dev.DeviceID()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "device id %#02x\n", id)
	if id != adxl375.ExpectedDeviceID {
		return &adxl375.VerifyError{Reg: adxl375.DevID, Want: adxl375.ExpectedDeviceID, Got: id}
	}
	return nil
}

var ProbeCmd = &cobra.Command{
	Use: "probe",
	SuggestFor: []string{
		"pro", "pr", "prob",
	},
	Short: "probe reads the device identity",
	Long: `probe reads the DEVID register without configuring the device.
It fails when the register does not hold the ADXL375 identity 0xe5, which
usually means a wiring or chip select problem.
`,
	Example: `  adxl375 probe --spi SPI0.0`,
	RunE:    ProbeCmdRunE,
}

func StreamCmdRunE(cmd *cobra.Command, _ []string) (err error) {
	opt, err := parse(cmd)
	if err != nil {
		return err
	}
	s, err := openInit(opt)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch opt.Stream.Format {
	case config.FormatGauge:
		g := gauge.New(&gauge.Opts{})
		defer func() {
			err = multierr.Combine(err, g.Halt())
		}()
		return stream(ctx, s.dev, opt.PollInterval(), opt.TimeOffset(), gaugeEmitter(g))
	default:
		emit, flush := csvEmitter(cmd.OutOrStdout())
		serr := stream(ctx, s.dev, opt.PollInterval(), opt.TimeOffset(), emit)
		return multierr.Combine(serr, flush())
	}
}

func StreamCmdFlags(cmd *cobra.Command) {
	config.AddFlags(cmd)
	cmd.Flags().IntP("interval", "i", config.DefaultPollInterval, "milliseconds between two FIFO drains")
	cmd.Flags().StringP("format", "f", config.DefaultFormat, "output format: csv or gauge")
}

var StreamCmd = &cobra.Command{
	Use: "stream",
	SuggestFor: []string{
		"str", "read",
	},
	Short: "stream drains the FIFO periodically and prints every sample",
	Long: `stream configures the device then drains its FIFO every poll interval.
Samples are printed as CSV rows (timestamp_us,accel_x,accel_y,accel_z) or
shown on a terminal gauge. Accelerations are in m/s².
The poll interval must stay below 33 samples worth of time, otherwise the
oldest samples are overwritten by the device.
Stops on SIGINT or SIGTERM.
`,
	Example: `  adxl375 stream --rate 800 --interval 20
  adxl375 stream --format gauge`,
	RunE: StreamCmdRunE,
}

func PlotCmdRunE(cmd *cobra.Command, _ []string) (err error) {
	opt, err := parse(cmd)
	if err != nil {
		return err
	}
	s, err := openInit(opt)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rs, err := collect(ctx, s.dev, opt.PollInterval(), opt.TimeOffset(), opt.PlotDuration())
	if err != nil {
		return err
	}
	log.Infof("captured %d samples", len(rs))
	if err := chart.Save(opt.Plot.Output, rs, &chart.Opts{Width: opt.Plot.Width, Height: opt.Plot.Height}); err != nil {
		return err
	}
	log.Infoln("chart written to", opt.Plot.Output)
	return nil
}

func PlotCmdFlags(cmd *cobra.Command) {
	config.AddFlags(cmd)
	cmd.Flags().IntP("interval", "i", config.DefaultPollInterval, "milliseconds between two FIFO drains")
	cmd.Flags().IntP("duration", "d", config.DefaultPlotDuration, "capture duration in milliseconds")
	cmd.Flags().StringP("output", "o", config.DefaultPlotOutput, "PNG output path")
}

var PlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "plot captures samples for a while and renders them as a PNG chart",
	Long: `plot configures the device, drains its FIFO for --duration milliseconds
and renders the three axes against time to --output.
`,
	Example: `  adxl375 plot --rate 3200 --duration 500 -o shock.png`,
	RunE:    PlotCmdRunE,
}

func StandbyCmdRunE(cmd *cobra.Command, _ []string) (err error) {
	opt, err := parse(cmd)
	if err != nil {
		return err
	}
	s, err := open(opt)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()
	if err := s.dev.Halt(); err != nil {
		return err
	}
	log.Infoln("device in standby")
	return nil
}

var StandbyCmd = &cobra.Command{
	Use:   "standby",
	Short: "standby stops measurement",
	Long: `standby clears the measure bit of POWER_CTL. Any later command that
reads samples configures the device again.
`,
	RunE: StandbyCmdRunE,
}

var rootOnce sync.Once

// getRootCmd registers the flags and subcommands of RootCmd the first time
// it is called.
func getRootCmd() *cobra.Command {
	rootOnce.Do(registerCommands)
	return RootCmd
}

func registerCommands() {
	InitCmdFlags(InitCmd)
	RootCmd.AddCommand(InitCmd)

	config.AddFlags(ProbeCmd)
	RootCmd.AddCommand(ProbeCmd)

	StreamCmdFlags(StreamCmd)
	RootCmd.AddCommand(StreamCmd)

	PlotCmdFlags(PlotCmd)
	RootCmd.AddCommand(PlotCmd)

	config.AddFlags(StandbyCmd)
	RootCmd.AddCommand(StandbyCmd)
}

func Execute() {
	rootCmd := getRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalln(err)
	}
}
