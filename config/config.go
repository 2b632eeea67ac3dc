// Package config holds the settings of the diff drive example node.
//
// Settings are layered: built-in defaults, then an optional YAML or JSON
// file, then private parameters given on the command line as _name:=value.
package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bargainbots/diffdrive/drive"
)

// ErrInvalidConfig is the cause of every error returned by this package for
// bad settings.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultNodeName = "diff_drive_test_node"
	DefaultTopic    = "/diff_drive_base_controller/cmd_vel"
	DefaultRateHz   = 20.0
	DefaultLogLevel = "info"
)

// Config represents the node configuration
type Config struct {
	NodeName     string  `yaml:"node_name" json:"node_name"`
	Namespace    string  `yaml:"namespace" json:"namespace"`
	Topic        string  `yaml:"topic" json:"topic"`
	FrameID      string  `yaml:"frame_id" json:"frame_id"`
	RateHz       float64 `yaml:"rate_hz" json:"rate_hz"`
	Count        int     `yaml:"count" json:"count"`
	LinearSpeed  float64 `yaml:"linear_speed" json:"linear_speed"`
	AngularSpeed float64 `yaml:"angular_speed" json:"angular_speed"`
	StopOnExit   bool    `yaml:"stop_on_exit" json:"stop_on_exit"`
	LogLevel     string  `yaml:"log_level" json:"log_level"`
}

// Default returns the settings the node runs with when nothing is configured.
func Default() *Config {
	speeds := drive.DefaultSpeeds()
	return &Config{
		NodeName:     DefaultNodeName,
		Topic:        DefaultTopic,
		RateHz:       DefaultRateHz,
		LinearSpeed:  speeds.Linear,
		AngularSpeed: speeds.Angular,
		StopOnExit:   true,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads the file at path on top of the defaults. Files ending in .json
// are read as JSON, anything else as YAML.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = cfg.applyJSON(data)
	default:
		err = cfg.applyYAML(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing config file %s", path)
	}
	return cfg, nil
}

func (c *Config) applyYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

func (c *Config) applyJSON(data []byte) error {
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		switch dataType {
		case jsonparser.Null:
			return nil
		case jsonparser.Object, jsonparser.Array:
			return errors.Wrapf(ErrInvalidConfig, "%s: expected a scalar", key)
		case jsonparser.String:
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return errors.Wrapf(ErrInvalidConfig, "%s: %v", key, err)
			}
			value = []byte(s)
		}
		return c.Set(string(key), string(value))
	})
	if err != nil && errors.Cause(err) != ErrInvalidConfig {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return err
}

// Apply sets every parameter in params. Parameter names are the YAML keys.
func (c *Config) Apply(params map[string]string) error {
	for name, value := range params {
		if err := c.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Set assigns a single setting from its textual form.
func (c *Config) Set(name, value string) error {
	var err error
	switch name {
	case "node_name":
		c.NodeName = value
	case "namespace":
		c.Namespace = value
	case "topic":
		c.Topic = value
	case "frame_id":
		c.FrameID = value
	case "log_level":
		c.LogLevel = value
	case "rate_hz":
		c.RateHz, err = strconv.ParseFloat(value, 64)
	case "linear_speed":
		c.LinearSpeed, err = strconv.ParseFloat(value, 64)
	case "angular_speed":
		c.AngularSpeed, err = strconv.ParseFloat(value, 64)
	case "count":
		c.Count, err = strconv.Atoi(value)
	case "stop_on_exit":
		c.StopOnExit, err = strconv.ParseBool(value)
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown setting %q", name)
	}
	if err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%s=%q", name, value)
	}
	return nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.NodeName == "" {
		return errors.Wrap(ErrInvalidConfig, "node_name is empty")
	}
	if c.Topic == "" {
		return errors.Wrap(ErrInvalidConfig, "topic is empty")
	}
	if _, err := drive.Period(c.RateHz); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "rate_hz: %v", err)
	}
	if c.Count < 0 {
		return errors.Wrapf(ErrInvalidConfig, "count must not be negative, got %d", c.Count)
	}
	return nil
}

