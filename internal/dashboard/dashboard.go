package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Widget kinds understood by the server. The set is fixed; there is no
// widget plugin mechanism.
const (
	WidgetPing   = "ping"
	WidgetSonarr = "sonarr"
)

// Tile span limits, in grid units.
const (
	minColumns  = 1
	maxColumns  = 4
	minTileSpan = 1
	maxTileSpan = 6
)

// Document is one immutable, fully-validated dashboard configuration.
// It is never mutated after Load returns it; a reload produces a brand-new
// Document that replaces the old one wholesale.
type Document struct {
	// Groups maps group key (the TOML table name) to its definition.
	Groups map[string]*Group

	// Order lists group keys in the order their tables appear in the
	// source document. TOML maps do not retain declaration order, so it
	// is recovered from the raw text at load time.
	Order []string
}

// Group is a named, ordered collection of dashboard tiles sharing a
// column count.
type Group struct {
	Name     string    `toml:"name"`
	Columns  int       `toml:"columns"`
	Services []Service `toml:"services"`
}

// Service is one dashboard tile: a link, display metadata, and an
// optional widget.
type Service struct {
	Title  string  `toml:"title"`
	Href   string  `toml:"href"`
	ImgSrc string  `toml:"imgSrc"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Widget *Widget `toml:"widget"`
}

// Widget configures a live-data feature attached to a service.
// Key is the only secret-classified field and must never reach a client
// or a log line.
type Widget struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
	Key  string `toml:"key"`
}

// Load reads and parses the dashboard document at path.
//
// A missing file is reported as an error wrapping ErrNotFound. Any
// structural problem (TOML syntax, out-of-range columns or tile spans,
// unknown widget kinds, duplicate service titles within a group) is
// reported as a *ParseError naming the offending path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("dashboard: read %q: %w", path, err)
	}

	groups := make(map[string]*Group)
	if err := toml.Unmarshal(data, &groups); err != nil {
		return nil, &ParseError{Path: "(document)", Reason: err.Error()}
	}

	doc := &Document{
		Groups: groups,
		Order:  groupOrder(data, groups),
	}

	if err := validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// groupOrder recovers the order of top-level group tables from the raw
// document text. Groups that the scan cannot place (exotic quoting) are
// appended in sorted order so the result is deterministic.
func groupOrder(data []byte, groups map[string]*Group) []string {
	order := make([]string, 0, len(groups))
	seen := make(map[string]bool, len(groups))

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") || strings.HasPrefix(line, "[[") {
			continue
		}
		end := strings.IndexByte(line, ']')
		if end < 0 {
			continue
		}
		key := strings.TrimSpace(line[1:end])
		if i := strings.IndexByte(key, '.'); i >= 0 {
			key = strings.TrimSpace(key[:i])
		}
		key = strings.Trim(key, `"'`)
		if key == "" || seen[key] {
			continue
		}
		if _, ok := groups[key]; !ok {
			continue
		}
		seen[key] = true
		order = append(order, key)
	}

	var missing []string
	for key := range groups {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return append(order, missing...)
}

// validate checks structural constraints on a parsed document.
// All failures are *ParseError values naming the offending path.
func validate(doc *Document) error {
	for _, key := range doc.Order {
		g := doc.Groups[key]
		if g == nil {
			return &ParseError{Path: key, Reason: "group table is empty"}
		}
		if g.Name == "" {
			return &ParseError{Path: key, Reason: "name is required"}
		}
		if g.Columns < minColumns || g.Columns > maxColumns {
			return &ParseError{
				Path:   key,
				Reason: fmt.Sprintf("columns %d is out of range [%d, %d]", g.Columns, minColumns, maxColumns),
			}
		}
		if g.Services == nil {
			return &ParseError{Path: key, Reason: "services is required"}
		}

		titles := make(map[string]bool, len(g.Services))
		for i := range g.Services {
			svc := &g.Services[i]
			path := fmt.Sprintf("%s.services[%d]", key, i)

			if svc.Title == "" {
				return &ParseError{Path: path, Reason: "title is required"}
			}
			if titles[svc.Title] {
				return &ParseError{
					Path:   path,
					Reason: fmt.Sprintf("duplicate title %q in group %q", svc.Title, key),
				}
			}
			titles[svc.Title] = true

			// Zero means unset; tiles default to a 1x1 span.
			if svc.Width == 0 {
				svc.Width = minTileSpan
			}
			if svc.Height == 0 {
				svc.Height = minTileSpan
			}
			if svc.Width < minTileSpan || svc.Width > maxTileSpan {
				return &ParseError{
					Path:   path,
					Reason: fmt.Sprintf("width %d is out of range [%d, %d]", svc.Width, minTileSpan, maxTileSpan),
				}
			}
			if svc.Height < minTileSpan || svc.Height > maxTileSpan {
				return &ParseError{
					Path:   path,
					Reason: fmt.Sprintf("height %d is out of range [%d, %d]", svc.Height, minTileSpan, maxTileSpan),
				}
			}

			if svc.Widget != nil {
				if err := validateWidget(path, svc.Widget); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateWidget(path string, w *Widget) error {
	path += ".widget"
	switch w.Name {
	case WidgetPing:
		if w.URL == "" {
			return &ParseError{Path: path, Reason: "ping widget requires url"}
		}
	case WidgetSonarr:
		if w.URL == "" {
			return &ParseError{Path: path, Reason: "sonarr widget requires url"}
		}
		if w.Key == "" {
			return &ParseError{Path: path, Reason: "sonarr widget requires key"}
		}
	default:
		return &ParseError{
			Path:   path,
			Reason: fmt.Sprintf("unknown widget name %q: want %s|%s", w.Name, WidgetPing, WidgetSonarr),
		}
	}
	return nil
}

// Stats summarises a document for the stats endpoint.
type Stats struct {
	Groups        int `json:"groups"`
	Services      int `json:"services"`
	PingWidgets   int `json:"ping_widgets"`
	SonarrWidgets int `json:"sonarr_widgets"`
}

// Stats counts groups, services and widgets by kind.
func (d *Document) Stats() Stats {
	s := Stats{Groups: len(d.Groups)}
	for _, g := range d.Groups {
		s.Services += len(g.Services)
		for i := range g.Services {
			w := g.Services[i].Widget
			if w == nil {
				continue
			}
			switch w.Name {
			case WidgetPing:
				s.PingWidgets++
			case WidgetSonarr:
				s.SonarrWidgets++
			}
		}
	}
	return s
}
