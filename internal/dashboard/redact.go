package dashboard

// ClientDocument is the secret-free view of a Document, safe to
// serialize to an untrusted browser. Groups are an ordered slice so the
// client renders them in source-document order.
type ClientDocument struct {
	Groups []ClientGroup `json:"groups"`
}

// ClientGroup mirrors Group plus its lookup key.
type ClientGroup struct {
	Key      string          `json:"key"`
	Name     string          `json:"name"`
	Columns  int             `json:"columns"`
	Services []ClientService `json:"services"`
}

// ClientService mirrors Service with the widget reduced to its name.
type ClientService struct {
	Title  string        `json:"title"`
	Href   string        `json:"href"`
	ImgSrc string        `json:"imgSrc"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Widget *ClientWidget `json:"widget,omitempty"`
}

// ClientWidget carries only the widget kind. URL, Key and any field
// added to Widget in the future are dropped by construction; there is
// no code path that could forward them.
type ClientWidget struct {
	Name string `json:"name"`
}

// Redact builds the client view of d. The output is constructed fresh,
// field by field; d is not touched.
func Redact(d *Document) *ClientDocument {
	out := &ClientDocument{Groups: make([]ClientGroup, 0, len(d.Order))}

	for _, key := range d.Order {
		g := d.Groups[key]
		cg := ClientGroup{
			Key:      key,
			Name:     g.Name,
			Columns:  g.Columns,
			Services: make([]ClientService, 0, len(g.Services)),
		}
		for i := range g.Services {
			svc := &g.Services[i]
			cs := ClientService{
				Title:  svc.Title,
				Href:   svc.Href,
				ImgSrc: svc.ImgSrc,
				Width:  svc.Width,
				Height: svc.Height,
			}
			if svc.Widget != nil {
				cs.Widget = &ClientWidget{Name: svc.Widget.Name}
			}
			cg.Services = append(cg.Services, cs)
		}
		out.Groups = append(out.Groups, cg)
	}
	return out
}
