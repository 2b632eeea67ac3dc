package drive

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/akio/rosgo/ros"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"

	"github.com/bargainbots/diffdrive/drive/mocks"
	"github.com/bargainbots/diffdrive/msgs/geometry_msgs"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// capture records a copy of every published command.
func capture(out *[]geometry_msgs.TwistStamped) func(ros.Message) {
	return func(msg ros.Message) {
		*out = append(*out, *msg.(*geometry_msgs.TwistStamped))
	}
}

func TestRunPublishesCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	node := mocks.NewMockNode(ctrl)
	pub := mocks.NewMockPublisher(ctrl)

	var sent []geometry_msgs.TwistStamped
	node.EXPECT().OK().Return(true).AnyTimes()
	node.EXPECT().SpinOnce().Times(2)
	pub.EXPECT().Publish(gomock.Any()).Do(capture(&sent)).Times(3)

	d, err := NewDriver(node, pub, NewCommand(Speeds{0.5, 0.3}, "base_link"), Options{
		Rate:   1000,
		Count:  3,
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	before := ros.Now()
	d.Run(context.Background())
	after := ros.Now()

	if d.Published() != 3 {
		t.Errorf("expected 3 publications, got %d", d.Published())
	}
	var last uint64
	for i, msg := range sent {
		if msg.Header.Seq != uint32(i) {
			t.Errorf("message %d has seq %d", i, msg.Header.Seq)
		}
		stamp := msg.Header.Stamp.ToNSec()
		if stamp < last {
			t.Errorf("message %d stamp went backwards: %d < %d", i, stamp, last)
		}
		if stamp < before.ToNSec() || stamp > after.ToNSec() {
			t.Errorf("message %d stamp %d outside of run window", i, stamp)
		}
		last = stamp
		if msg.Twist.Linear.X != 0.5 || msg.Twist.Angular.Z != 0.3 {
			t.Errorf("message %d: unexpected twist %v", i, msg.Twist)
		}
		if msg.Header.FrameId != "base_link" {
			t.Error(msg.Header.FrameId)
		}
	}
}

func TestRunClampsStamps(t *testing.T) {
	ctrl := gomock.NewController(t)
	node := mocks.NewMockNode(ctrl)
	pub := mocks.NewMockPublisher(ctrl)
	clock := mocks.NewMockClock(ctrl)

	var sent []geometry_msgs.TwistStamped
	node.EXPECT().OK().Return(true).AnyTimes()
	node.EXPECT().SpinOnce().AnyTimes()
	pub.EXPECT().Publish(gomock.Any()).Do(capture(&sent)).Times(3)
	gomock.InOrder(
		clock.EXPECT().Now().Return(ros.NewTime(10, 0)),
		clock.EXPECT().Now().Return(ros.NewTime(9, 500)),
		clock.EXPECT().Now().Return(ros.NewTime(11, 0)),
	)

	d, err := NewDriver(node, pub, NewCommand(DefaultSpeeds(), ""), Options{
		Rate:   1000,
		Count:  3,
		Clock:  clock,
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	d.Run(context.Background())

	expected := []uint32{10, 10, 11}
	if len(sent) != len(expected) {
		t.Fatalf("expected %d messages, got %d", len(expected), len(sent))
	}
	for i, sec := range expected {
		if sent[i].Header.Stamp.Sec != sec || sent[i].Header.Stamp.NSec != 0 {
			t.Errorf("message %d: expected stamp %d.0, got %d.%d",
				i, sec, sent[i].Header.Stamp.Sec, sent[i].Header.Stamp.NSec)
		}
	}
}

func TestRunStopOnExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	node := mocks.NewMockNode(ctrl)
	pub := mocks.NewMockPublisher(ctrl)

	var sent []geometry_msgs.TwistStamped
	node.EXPECT().OK().Return(true).AnyTimes()
	node.EXPECT().SpinOnce().AnyTimes()
	pub.EXPECT().Publish(gomock.Any()).Do(capture(&sent)).Times(3)

	cmd := NewCommand(Speeds{1, -1}, "odom")
	d, err := NewDriver(node, pub, cmd, Options{
		Rate:       1000,
		Count:      2,
		StopOnExit: true,
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	d.Run(context.Background())

	if d.Published() != 2 {
		t.Errorf("stop command must not count, got %d", d.Published())
	}
	stop := sent[len(sent)-1]
	if stop.Twist != (geometry_msgs.Twist{}) {
		t.Errorf("expected a zero twist, got %v", stop.Twist)
	}
	if stop.Header.Seq != 2 || stop.Header.FrameId != "odom" {
		t.Errorf("unexpected stop header %v", stop.Header)
	}
	if cmd.Twist.Linear.X != 1 || cmd.Twist.Angular.Z != -1 {
		t.Error("stop command must not modify the motion command")
	}
}

func TestRunStopsWhenNodeShutsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	node := mocks.NewMockNode(ctrl)
	pub := mocks.NewMockPublisher(ctrl)

	gomock.InOrder(
		node.EXPECT().OK().Return(true),
		node.EXPECT().OK().Return(false),
	)
	node.EXPECT().SpinOnce().Times(1)
	pub.EXPECT().Publish(gomock.Any()).Times(1)

	d, err := NewDriver(node, pub, NewCommand(DefaultSpeeds(), ""), Options{
		Rate:   1000,
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	d.Run(context.Background())
	if d.Published() != 1 {
		t.Error(d.Published())
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	node := mocks.NewMockNode(ctrl)
	pub := mocks.NewMockPublisher(ctrl)

	var sent []geometry_msgs.TwistStamped
	node.EXPECT().OK().Return(true).AnyTimes()
	pub.EXPECT().Publish(gomock.Any()).Do(capture(&sent)).Times(1)

	d, err := NewDriver(node, pub, NewCommand(DefaultSpeeds(), ""), Options{
		Rate:       20,
		StopOnExit: true,
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	if d.Published() != 0 {
		t.Error(d.Published())
	}
	if len(sent) != 1 || sent[0].Twist != (geometry_msgs.Twist{}) {
		t.Errorf("expected only the stop command, got %v", sent)
	}
}

func TestRunCancelledWhileWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)
	node := mocks.NewMockNode(ctrl)
	pub := mocks.NewMockPublisher(ctrl)

	node.EXPECT().OK().Return(true).AnyTimes()
	pub.EXPECT().Publish(gomock.Any()).Times(1)

	d, err := NewDriver(node, pub, NewCommand(DefaultSpeeds(), ""), Options{
		Rate:   0.001,
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestNewDriverValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	node := mocks.NewMockNode(ctrl)
	pub := mocks.NewMockPublisher(ctrl)
	cmd := NewCommand(DefaultSpeeds(), "")

	if _, err := NewDriver(node, pub, cmd, Options{Rate: 0}); err == nil {
		t.Error("expected an error for a zero rate")
	}
	if _, err := NewDriver(node, pub, cmd, Options{Rate: -5}); err == nil {
		t.Error("expected an error for a negative rate")
	}
	if _, err := NewDriver(node, pub, cmd, Options{Rate: 1e-12}); err == nil {
		t.Error("expected an error for a rate whose cycle time overflows")
	}
	if _, err := NewDriver(node, pub, cmd, Options{Rate: 20, Count: -1}); err == nil {
		t.Error("expected an error for a negative count")
	}
	if _, err := NewDriver(node, nil, cmd, Options{Rate: 20}); err == nil {
		t.Error("expected an error for a missing publisher")
	}
	d, err := NewDriver(node, pub, cmd, Options{Rate: 20})
	if err != nil {
		t.Fatal(err)
	}
	if d.rate.ExpectedCycleTime() != 50*time.Millisecond {
		t.Error(d.rate.ExpectedCycleTime())
	}
}
