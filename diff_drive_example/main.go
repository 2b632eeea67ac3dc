// Command diff_drive_example drives a differential drive base controller at
// a constant velocity.
//
//	diff_drive_example [linear_speed] [angular_speed] [_name:=value ...] [ros remappings ...]
//
// Private parameters such as _rate_hz:=10 or _config:=r1.yaml override the
// built-in settings. Remappings are handed to the ROS node untouched.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/akio/rosgo/ros"
	"github.com/pkg/errors"

	"github.com/bargainbots/diffdrive/config"
	"github.com/bargainbots/diffdrive/drive"
	"github.com/bargainbots/diffdrive/logging"
	"github.com/bargainbots/diffdrive/msgs/geometry_msgs"
)

const configParam = "config"

type plan struct {
	cfg    *config.Config
	speeds drive.Speeds
	topic  string
}

// prepare turns the command line, without the program name, into a plan.
func prepare(args []string) (*plan, error) {
	positionals, params := drive.SplitArgs(args)
	if len(positionals) > 2 {
		return nil, errors.Wrapf(drive.ErrTooManyArgs, "got %d, want at most 2", len(positionals))
	}

	cfg := config.Default()
	if path, ok := params[configParam]; ok {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		delete(params, configParam)
	}
	if err := cfg.Apply(params); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	speeds, err := drive.ParseArgs(positionals, drive.Speeds{
		Linear:  cfg.LinearSpeed,
		Angular: cfg.AngularSpeed,
	})
	if err != nil {
		return nil, err
	}
	topic, err := drive.ResolveTopic(cfg.Namespace, cfg.Topic)
	if err != nil {
		return nil, err
	}
	return &plan{cfg: cfg, speeds: speeds, topic: topic}, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	program := filepath.Base(args[0])
	p, err := prepare(args[1:])
	if err != nil {
		switch errors.Cause(err) {
		case drive.ErrTooManyArgs:
			fmt.Fprintln(stderr, drive.Usage(program))
		case drive.ErrInvalidSpeed:
			fmt.Fprintln(stderr, err)
			fmt.Fprintln(stderr, drive.Usage(program))
		default:
			fmt.Fprintln(stderr, err)
		}
		return 1
	}

	logger, err := logging.New(p.cfg.LogLevel, p.cfg.NodeName, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	node, err := ros.NewNode(p.cfg.NodeName, args)
	if err != nil {
		logger.WithError(err).Error("failed to create node")
		return 1
	}
	defer node.Shutdown()
	pub := node.NewPublisher(p.topic, geometry_msgs.MsgTwistStamped)
	logger.WithField("topic", p.topic).Info("node created")

	driver, err := drive.NewDriver(node, pub, drive.NewCommand(p.speeds, p.cfg.FrameID), drive.Options{
		Rate:       p.cfg.RateHz,
		Count:      p.cfg.Count,
		StopOnExit: p.cfg.StopOnExit,
		Logger:     logger,
	})
	if err != nil {
		logger.WithError(err).Error("failed to create driver")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	driver.Run(ctx)
	return 0
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
