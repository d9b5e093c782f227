package domain

import "fmt"

// FeedbackMode selects where the feedback bit comes from.
type FeedbackMode string

const (
	// FeedbackInternal uses the register's own top bit.
	FeedbackInternal FeedbackMode = "internal"

	// FeedbackExternal reads the serial output of the physical shift register.
	FeedbackExternal FeedbackMode = "external"
)

// ParseFeedbackMode validates a feedback mode name. An empty name selects
// FeedbackInternal.
func ParseFeedbackMode(s string) (FeedbackMode, error) {
	switch FeedbackMode(s) {
	case "", FeedbackInternal:
		return FeedbackInternal, nil
	case FeedbackExternal:
		return FeedbackExternal, nil
	default:
		return "", fmt.Errorf("%w: feedback must be %q or %q, got %q",
			ErrInvalidConfig, FeedbackInternal, FeedbackExternal, s)
	}
}
