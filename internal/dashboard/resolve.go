package dashboard

// Service looks up the service with the given title inside the named
// group. The returned pointer is shared with every other reader of this
// document snapshot; callers must treat it as read-only.
//
// Lookup runs on every widget-backed request; a linear scan is fine at
// dashboard cardinalities (tens of services, not thousands).
func (d *Document) Service(group, title string) (*Service, error) {
	g, ok := d.Groups[group]
	if !ok {
		return nil, &GroupNotFoundError{Group: group}
	}
	for i := range g.Services {
		if g.Services[i].Title == title {
			return &g.Services[i], nil
		}
	}
	return nil, &ServiceNotFoundError{Group: group, Title: title}
}

// Widget resolves the widget descriptor for the named service.
// A service without a widget yields a *WidgetNotConfiguredError.
func (d *Document) Widget(group, title string) (*Widget, error) {
	svc, err := d.Service(group, title)
	if err != nil {
		return nil, err
	}
	if svc.Widget == nil {
		return nil, &WidgetNotConfiguredError{Group: group, Title: title}
	}
	return svc.Widget, nil
}
