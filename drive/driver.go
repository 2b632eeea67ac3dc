// Package drive publishes a fixed velocity command to a differential drive
// controller at a steady rate.
package drive

//go:generate mockgen -destination=mocks/mock_drive.go -package=mocks github.com/bargainbots/diffdrive/drive Clock,Node,Publisher

import (
	"context"

	"github.com/akio/rosgo/ros"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bargainbots/diffdrive/msgs/geometry_msgs"
)

// Publisher is the part of ros.Publisher the driver needs.
type Publisher interface {
	Publish(msg ros.Message)
}

// Node is the part of ros.Node the driver needs.
type Node interface {
	OK() bool
	SpinOnce()
}

// Clock supplies header stamps.
type Clock interface {
	Now() ros.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() ros.Time {
	return ros.Now()
}

// Options tune a Driver. The zero value of every field except Rate is usable.
type Options struct {
	// Rate is the publication frequency in Hz.
	Rate float64
	// Count stops the driver after that many commands. Zero runs until
	// cancelled.
	Count int
	// StopOnExit publishes one zero velocity command when Run returns.
	StopOnExit bool
	Clock      Clock
	Logger     *logrus.Entry
}

// Driver republishes one motion command until it is told to stop.
type Driver struct {
	node       Node
	pub        Publisher
	cmd        *geometry_msgs.TwistStamped
	rate       Rate
	clock      Clock
	count      int
	stopOnExit bool
	logger     *logrus.Entry

	seq       uint32
	last      ros.Time
	published int
}

func NewDriver(node Node, pub Publisher, cmd *geometry_msgs.TwistStamped, opts Options) (*Driver, error) {
	if node == nil || pub == nil || cmd == nil {
		return nil, errors.New("driver needs a node, a publisher and a command")
	}
	period, err := Period(opts.Rate)
	if err != nil {
		return nil, err
	}
	if opts.Count < 0 {
		return nil, errors.Errorf("count must not be negative, got %d", opts.Count)
	}
	d := &Driver{
		node:       node,
		pub:        pub,
		cmd:        cmd,
		rate:       CycleTime(period),
		clock:      opts.Clock,
		count:      opts.Count,
		stopOnExit: opts.StopOnExit,
		logger:     opts.Logger,
	}
	if d.clock == nil {
		d.clock = SystemClock{}
	}
	if d.logger == nil {
		d.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return d, nil
}

// Published returns the number of motion commands sent so far, not counting
// the final stop command.
func (d *Driver) Published() int {
	return d.published
}

// Run publishes the command once per cycle until ctx is done, the node shuts
// down or the configured count is reached. Between cycles it lets the node
// service its callback queue.
func (d *Driver) Run(ctx context.Context) {
	d.logger.WithFields(logrus.Fields{
		"linear":  d.cmd.Twist.Linear.X,
		"angular": d.cmd.Twist.Angular.Z,
		"period":  d.rate.ExpectedCycleTime(),
	}).Info("publishing motion command")

	if d.stopOnExit {
		defer d.halt()
	}

	d.rate.Reset()
	for {
		if ctx.Err() != nil || !d.node.OK() {
			break
		}
		d.publish(d.cmd)
		d.published++
		if d.count > 0 && d.published >= d.count {
			break
		}
		if err := d.rate.Sleep(ctx); err != nil {
			break
		}
		d.node.SpinOnce()
	}
	d.logger.WithField("published", d.published).Info("stopped publishing")
}

func (d *Driver) halt() {
	stop := NewCommand(Speeds{}, d.cmd.Header.FrameId)
	d.publish(stop)
	d.logger.Debug("published stop command")
}

// publish stamps msg and sends it. Stamps never go backwards, even when the
// clock does.
func (d *Driver) publish(msg *geometry_msgs.TwistStamped) {
	now := d.clock.Now()
	if now.ToNSec() < d.last.ToNSec() {
		d.logger.Warnf("clock jumped back %d ns, reusing last stamp", d.last.ToNSec()-now.ToNSec())
		now = d.last
	}
	d.last = now

	msg.Header.Seq = d.seq
	msg.Header.Stamp = now
	d.seq++
	d.pub.Publish(msg)
	d.logger.WithField("seq", msg.Header.Seq).Debug("published")
}
