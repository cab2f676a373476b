package dashboard

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missing dashboard document file.
var ErrNotFound = errors.New("dashboard: config file not found")

// ParseError reports a structurally invalid dashboard document.
// Path names the offending location, e.g. "media.services[2].widget".
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dashboard: parse %s: %s", e.Path, e.Reason)
}

// GroupNotFoundError reports a lookup against a group key absent from
// the document.
type GroupNotFoundError struct {
	Group string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("dashboard: group %q not found", e.Group)
}

// ServiceNotFoundError reports a lookup for a service title absent from
// its group.
type ServiceNotFoundError struct {
	Group string
	Title string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("dashboard: service %q not found in group %q", e.Title, e.Group)
}

// WidgetNotConfiguredError reports a widget request against a service
// that has no widget.
type WidgetNotConfiguredError struct {
	Group string
	Title string
}

func (e *WidgetNotConfiguredError) Error() string {
	return fmt.Sprintf("dashboard: service %q in group %q has no widget", e.Title, e.Group)
}
