// Package logging builds the logrus logger used by the node.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NodeKey is the field holding the node name. The formatter prints it in the
// line prefix instead of with the other fields.
const NodeKey = "node"

// New returns a logger for node writing to out at the given level.
func New(level string, node string, out io.Writer) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "bad log level %q", level)
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetOutput(out)
	l.SetFormatter(&ConsoleFormatter{})
	return l.WithField(NodeKey, node), nil
}

// ConsoleFormatter writes lines the way the ROS console does:
//
//	[INFO] [1697371234.123456789] [diff_drive_test_node]: node created key=value
type ConsoleFormatter struct{}

// Format implements the logrus.Formatter interface
func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	level := strings.ToUpper(entry.Level.String())
	if level == "WARNING" {
		level = "WARN"
	}
	fmt.Fprintf(b, "[%s] [%d.%09d]", level, entry.Time.Unix(), entry.Time.Nanosecond())
	if node, ok := entry.Data[NodeKey]; ok {
		fmt.Fprintf(b, " [%v]", node)
	}
	b.WriteString(": ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != NodeKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
