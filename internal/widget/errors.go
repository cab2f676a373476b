package widget

import "fmt"

// OutboundError reports a failed call to a widget's downstream service:
// timeout, connection failure, or a non-success status where success
// was required. It never carries credentials.
type OutboundError struct {
	Op     string // "ping", "sonarr calendar", "sonarr queue"
	Status int    // non-zero when the downstream answered with a status
	Err    error  // non-nil for transport-level failures
}

func (e *OutboundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("widget: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("widget: %s: downstream returned HTTP %d", e.Op, e.Status)
}

func (e *OutboundError) Unwrap() error {
	return e.Err
}
