// Package sms sends text messages through an external messaging provider.
package sms

import (
	"context"
	"strings"
)

// Sender delivers one message. A nil error means the provider accepted it;
// delivery itself is not tracked.
type Sender interface {
	Send(ctx context.Context, from, to, body string) error
}

// NormalizePhone prefixes defaultCC unless the number already carries an
// international "+" prefix.
func NormalizePhone(number, defaultCC string) string {
	n := strings.TrimSpace(number)
	if n == "" || strings.HasPrefix(n, "+") {
		return n
	}
	if defaultCC != "" && !strings.HasPrefix(defaultCC, "+") {
		defaultCC = "+" + defaultCC
	}
	return defaultCC + n
}
