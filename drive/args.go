package drive

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultLinearSpeed is the forward speed in m/s used when none is given.
	DefaultLinearSpeed = 0.5
	// DefaultAngularSpeed is the yaw rate in rad/s used when none is given.
	DefaultAngularSpeed = 0.3

	// Remap separates the key and the value of a ROS remapping argument.
	Remap = ":="
)

var (
	// ErrTooManyArgs is returned when more than two speeds are given.
	ErrTooManyArgs = errors.New("too many arguments")
	// ErrInvalidSpeed is returned when a speed is not a finite number.
	ErrInvalidSpeed = errors.New("invalid speed")
)

// Speeds holds the two driven components of a motion command.
type Speeds struct {
	Linear  float64
	Angular float64
}

// DefaultSpeeds returns the speeds used when none are configured.
func DefaultSpeeds() Speeds {
	return Speeds{Linear: DefaultLinearSpeed, Angular: DefaultAngularSpeed}
}

// Usage returns the one line usage message for program.
func Usage(program string) string {
	return fmt.Sprintf("Usage: %s [linear_speed] [angular_speed]", program)
}

// SplitArgs separates command line arguments into positionals and private
// parameters. Private parameters are written as _name:=value and are
// returned without the leading underscore. Every other remapping argument
// (foo:=bar, __name:=bar) belongs to the middleware and is dropped.
func SplitArgs(args []string) ([]string, map[string]string) {
	rest := make([]string, 0, len(args))
	params := make(map[string]string)
	for _, arg := range args {
		components := strings.Split(arg, Remap)
		if len(components) != 2 {
			rest = append(rest, arg)
			continue
		}
		key, value := components[0], components[1]
		if strings.HasPrefix(key, "_") && !strings.HasPrefix(key, "__") {
			params[key[1:]] = value
		}
	}
	return rest, params
}

// ParseArgs reads up to two positional speeds. Missing speeds keep the
// values of defaults.
func ParseArgs(args []string, defaults Speeds) (Speeds, error) {
	speeds := defaults
	if len(args) > 2 {
		return speeds, errors.Wrapf(ErrTooManyArgs, "got %d, want at most 2", len(args))
	}
	if len(args) >= 1 {
		v, err := parseSpeed("linear_speed", args[0])
		if err != nil {
			return speeds, err
		}
		speeds.Linear = v
	}
	if len(args) == 2 {
		v, err := parseSpeed("angular_speed", args[1])
		if err != nil {
			return speeds, err
		}
		speeds.Angular = v
	}
	return speeds, nil
}

func parseSpeed(name, arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(ErrInvalidSpeed, "%s %q", name, arg)
	}
	return v, nil
}
