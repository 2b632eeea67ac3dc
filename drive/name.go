package drive

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	Sep       = "/"
	GlobalNS  = "/"
	PrivateNS = "~"
)

// ErrInvalidName is returned for malformed graph names.
var ErrInvalidName = errors.New("invalid graph name")

var validName = regexp.MustCompile(`^[~/]?([a-zA-Z]\w*/)*[a-zA-Z]\w*/?$`)

func isValidName(name string) bool {
	if len(name) == 0 {
		return true
	}
	if name == GlobalNS || name == PrivateNS {
		return true
	}
	return validName.MatchString(name)
}

func isGlobalName(name string) bool {
	return len(name) > 0 && name[0:1] == GlobalNS
}

func isPrivateName(name string) bool {
	return len(name) > 0 && name[0:1] == PrivateNS
}

// Remove sequential separators
func canonicalizeName(name string) string {
	if name == GlobalNS || name == "" {
		return name
	}
	components := []string{}
	for _, word := range strings.Split(name, Sep) {
		if len(word) > 0 {
			components = append(components, word)
		}
	}
	if isGlobalName(name) {
		return GlobalNS + strings.Join(components, Sep)
	}
	return strings.Join(components, Sep)
}

// ResolveTopic validates topic and places it under namespace. Global topics
// are returned as is. With a namespace, relative topics become global names
// under it, the namespace itself taken relative to the root. Without one,
// relative topics stay relative so the node resolves them against its own
// namespace (__ns:= or ROS_NAMESPACE).
func ResolveTopic(namespace, topic string) (string, error) {
	if topic == "" || topic == GlobalNS {
		return "", errors.Wrap(ErrInvalidName, "empty topic")
	}
	if !isValidName(topic) {
		return "", errors.Wrapf(ErrInvalidName, "topic %q", topic)
	}
	if isPrivateName(topic) || isPrivateName(namespace) {
		return "", errors.Wrapf(ErrInvalidName, "private name %q has no owning node", topic)
	}
	if !isValidName(namespace) {
		return "", errors.Wrapf(ErrInvalidName, "namespace %q", namespace)
	}

	topic = canonicalizeName(topic)
	if isGlobalName(topic) || namespace == "" {
		return topic, nil
	}
	ns := canonicalizeName(GlobalNS + namespace)
	if ns == GlobalNS {
		return GlobalNS + topic, nil
	}
	return ns + Sep + topic, nil
}
