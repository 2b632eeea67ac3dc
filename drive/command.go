package drive

import (
	"github.com/bargainbots/diffdrive/msgs/geometry_msgs"
	"github.com/bargainbots/diffdrive/msgs/std_msgs"
)

// NewCommand builds a stamped twist that drives forward at s.Linear and
// turns at s.Angular. All other components are zero.
func NewCommand(s Speeds, frameID string) *geometry_msgs.TwistStamped {
	return &geometry_msgs.TwistStamped{
		Header: std_msgs.Header{FrameId: frameID},
		Twist: geometry_msgs.Twist{
			Linear:  geometry_msgs.Vector3{X: s.Linear, Y: 0.0, Z: 0.0},
			Angular: geometry_msgs.Vector3{X: 0.0, Y: 0.0, Z: s.Angular},
		},
	}
}
