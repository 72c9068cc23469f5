// Command snaplight connects to a Snapcast server, drives an
// FFT-based audio-to-color pipeline off the stream it receives, and
// forwards the result to an LED sink, 60 times a second, for as long as
// it runs. No arguments are required; it runs to completion on SIGINT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kgraymoore/snaplight/internal/arbiter"
	"github.com/kgraymoore/snaplight/internal/buildinfo"
	"github.com/kgraymoore/snaplight/internal/config"
	"github.com/kgraymoore/snaplight/internal/controller"
	"github.com/kgraymoore/snaplight/internal/discovery"
	"github.com/kgraymoore/snaplight/internal/sink"
	"github.com/kgraymoore/snaplight/internal/snapclient"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := &config.Flags{}

	var (
		configPath  string
		showVersion bool
	)

	pflag.StringVarP(&configPath, "config", "c", "snaplight.yaml", "path to an optional YAML config file")
	pflag.StringVar(&flags.Server, "server", "", "Snapcast server address (host:port); skips mDNS discovery when set")
	pflag.IntVar(&flags.BufferMs, "buffer-ms", 1000, "initial playback buffer, in milliseconds")
	pflag.StringVar(&flags.LEDSink, "led-sink", "gpio", "LED sink to use: gpio or serial")
	pflag.StringVar(&flags.SerialPort, "serial-port", sink.DefaultSerialPort, "serial device path for the serial LED sink")
	pflag.IntVar(&flags.SerialBaud, "serial-baud", sink.DefaultBaud, "serial baud rate for the serial LED sink")
	pflag.StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn, or error")
	pflag.BoolVar(&flags.NoDiscovery, "no-discovery", false, "disable mDNS discovery (requires --server)")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Println(buildinfo.String())

		return 0
	}

	if buildinfo.Version != "" {
		snapclient.ClientVersion = buildinfo.Version
	}

	changed := map[string]bool{}
	pflag.Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if file, err := config.Load(configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	} else {
		config.Merge(file, changed, flags)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl := os.Getenv("SNAPLIGHT_LOG"); lvl != "" {
		flags.LogLevel = lvl
	}

	level, err := log.ParseLevel(flags.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := flags.Server

	if addr == "" {
		if flags.NoDiscovery {
			logger.Error("--no-discovery set but --server not provided")

			return 1
		}

		target, err := discovery.Discover(ctx, logger)
		if err != nil {
			logger.Error("discovery failed", "err", err)

			return 1
		}

		addr = target.String()
	}

	music := controller.NewMusicController(44100)
	blank := controller.NewBlankController()

	ledSink, closeSink, err := openSink(flags)
	if err != nil {
		logger.Error("failed to open LED sink", "err", err)

		return 1
	}

	defer closeSink()

	a := arbiter.New(
		[]controller.Controller{music, blank},
		[]string{"music", "blank"},
		ledSink,
		logger,
	)

	go func() {
		if err := snapclient.RunWithRetry(ctx, addr, flags.BufferMs, music, logger); err != nil {
			logger.Error("music source gave up", "err", err)
		}
	}()

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("arbiter stopped unexpectedly", "err", err)

		return 1
	}

	return 0
}

type sinkCloser func() error

func openSink(flags *config.Flags) (arbiter.Sink, sinkCloser, error) {
	switch flags.LEDSink {
	case "serial":
		s, err := sink.OpenSerialSink(flags.SerialPort, flags.SerialBaud)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil

	case "gpio", "":
		s, err := sink.OpenGPIOSink("gpiochip0", 18)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown LED sink %q", flags.LEDSink)
	}
}
