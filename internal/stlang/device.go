// File path: internal/stlang/device.go
package stlang

import (
	"regexp"
	"strings"
)

var deviceTokenRe = regexp.MustCompile(`(?i)^[XYMDT][0-9]+$`)

// MatchDevice applies the hardware-address heuristic for global
// labels. The comment is consulted first: when its first
// whitespace-separated token looks like a device address (X0, Y10,
// M100, D200, T5; case-insensitive), that token is taken as the
// device and stripped from the comment. Otherwise the label name is
// searched, splitting on underscores so MOTOR_M100 matches while
// START does not. A comment whose first token is not a device address
// blocks the name fallback. The match is best-effort: a comment
// mentioning "D200" as a quantity is indistinguishable from an
// address.
func MatchDevice(comment, name string) (device, remainder string) {
	remainder = strings.TrimSpace(comment)
	if remainder != "" {
		fields := strings.Fields(remainder)
		if deviceTokenRe.MatchString(fields[0]) {
			return fields[0], strings.Join(fields[1:], " ")
		}
		return "", remainder
	}
	for _, part := range strings.Split(name, "_") {
		if deviceTokenRe.MatchString(part) {
			return part, remainder
		}
	}
	return "", remainder
}
