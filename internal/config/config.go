// Package config loads the optional YAML config file and merges it
// with CLI flag values, CLI taking precedence, mirroring the teacher's
// own "config file sets defaults, command line overrides" convention.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of snaplight.yaml. Every field is optional;
// a zero value means "not set, use the flag default".
type File struct {
	Server     string `yaml:"server"`
	BufferMs   int    `yaml:"bufferMs"`
	LEDSink    string `yaml:"ledSink"`
	SerialPort string `yaml:"serialPort"`
	SerialBaud int    `yaml:"serialBaud"`
	LogLevel   string `yaml:"logLevel"`
	NoDiscover bool   `yaml:"noDiscovery"`
}

// Load reads and parses the YAML file at path. A missing file is not
// an error: it returns a zero-value File, since every field is
// optional and flags may supply everything.
func Load(path string) (File, error) {
	var f File

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}

		return f, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return f, nil
}

// Merge applies file as defaults wherever the corresponding flag
// wasn't explicitly set by the caller (changed reports, by flag name,
// which flags were passed on the command line).
func Merge(f File, changed map[string]bool, flags *Flags) {
	if !changed["server"] && f.Server != "" {
		flags.Server = f.Server
	}

	if !changed["buffer-ms"] && f.BufferMs != 0 {
		flags.BufferMs = f.BufferMs
	}

	if !changed["led-sink"] && f.LEDSink != "" {
		flags.LEDSink = f.LEDSink
	}

	if !changed["serial-port"] && f.SerialPort != "" {
		flags.SerialPort = f.SerialPort
	}

	if !changed["serial-baud"] && f.SerialBaud != 0 {
		flags.SerialBaud = f.SerialBaud
	}

	if !changed["log-level"] && f.LogLevel != "" {
		flags.LogLevel = f.LogLevel
	}

	if !changed["no-discovery"] && f.NoDiscover {
		flags.NoDiscovery = f.NoDiscover
	}
}

// Flags is the CLI surface merged against the config file. It mirrors
// the flag set cmd/snaplight/main.go builds with pflag.
type Flags struct {
	Server      string
	BufferMs    int
	LEDSink     string
	SerialPort  string
	SerialBaud  int
	LogLevel    string
	NoDiscovery bool
}
