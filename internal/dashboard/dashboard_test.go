package dashboard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "vesta.toml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return p
}

const sampleDoc = `[media]
name = "Media"
columns = 2

[[media.services]]
title = "Sonarr"
href = "http://sonarr.local:8989"
imgSrc = "/icons/sonarr.png"
width = 2
height = 1

[media.services.widget]
name = "sonarr"
url = "http://sonarr.local:8989"
key = "abc123"

[[media.services]]
title = "Jellyfin"
href = "http://jellyfin.local:8096"
imgSrc = "/icons/jellyfin.png"

[infra]
name = "Infrastructure"
columns = 3

[[infra.services]]
title = "Router"
href = "https://router.local"
imgSrc = "/icons/router.png"

[infra.services.widget]
name = "ping"
url = "https://router.local"
`

func TestLoad_Sample(t *testing.T) {
	doc, err := Load(writeDoc(t, sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(doc.Groups) != 2 {
		t.Fatalf("groups: got %d, want 2", len(doc.Groups))
	}
	media := doc.Groups["media"]
	if media == nil {
		t.Fatal("group media missing")
	}
	if media.Name != "Media" || media.Columns != 2 {
		t.Errorf("media: got %q/%d, want Media/2", media.Name, media.Columns)
	}
	if len(media.Services) != 2 {
		t.Fatalf("media services: got %d, want 2", len(media.Services))
	}
	if media.Services[0].Title != "Sonarr" || media.Services[1].Title != "Jellyfin" {
		t.Errorf("service order: got %q, %q", media.Services[0].Title, media.Services[1].Title)
	}

	w := media.Services[0].Widget
	if w == nil {
		t.Fatal("Sonarr widget missing")
	}
	if w.Name != WidgetSonarr || w.URL != "http://sonarr.local:8989" || w.Key != "abc123" {
		t.Errorf("widget: got %+v", w)
	}
}

func TestLoad_GroupOrderPreserved(t *testing.T) {
	doc, err := Load(writeDoc(t, sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"media", "infra"}
	if len(doc.Order) != len(want) {
		t.Fatalf("order: got %v, want %v", doc.Order, want)
	}
	for i, key := range want {
		if doc.Order[i] != key {
			t.Errorf("order[%d]: got %q, want %q", i, doc.Order[i], key)
		}
	}
}

func TestLoad_DefaultsTileSpan(t *testing.T) {
	doc, err := Load(writeDoc(t, sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	jf := doc.Groups["media"].Services[1]
	if jf.Width != 1 || jf.Height != 1 {
		t.Errorf("unset spans: got %dx%d, want 1x1", jf.Width, jf.Height)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err: got %v, want ErrNotFound", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeDoc(t, "[media\nname = "))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err: got %T (%v), want *ParseError", err, err)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing name", "[g]\ncolumns = 2\n"},
		{"columns too small", "[g]\nname = \"G\"\ncolumns = 0\n"},
		{"columns too large", "[g]\nname = \"G\"\ncolumns = 5\n"},
		{"missing services", "[g]\nname = \"G\"\ncolumns = 1\n"},
		{"missing title", "[g]\nname = \"G\"\ncolumns = 1\n[[g.services]]\nhref = \"x\"\n"},
		{"width out of range", "[g]\nname = \"G\"\ncolumns = 1\n[[g.services]]\ntitle = \"A\"\nwidth = 7\n"},
		{"height out of range", "[g]\nname = \"G\"\ncolumns = 1\n[[g.services]]\ntitle = \"A\"\nheight = 9\n"},
		{"unknown widget", "[g]\nname = \"G\"\ncolumns = 1\n[[g.services]]\ntitle = \"A\"\n[g.services.widget]\nname = \"weather\"\nurl = \"x\"\n"},
		{"ping without url", "[g]\nname = \"G\"\ncolumns = 1\n[[g.services]]\ntitle = \"A\"\n[g.services.widget]\nname = \"ping\"\n"},
		{"sonarr without key", "[g]\nname = \"G\"\ncolumns = 1\n[[g.services]]\ntitle = \"A\"\n[g.services.widget]\nname = \"sonarr\"\nurl = \"x\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeDoc(t, tc.doc))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("err: got %T (%v), want *ParseError", err, err)
			}
			if perr.Path == "" {
				t.Error("ParseError.Path is empty")
			}
		})
	}
}

func TestLoad_DuplicateTitleRejected(t *testing.T) {
	_, err := Load(writeDoc(t, `[g]
name = "G"
columns = 1

[[g.services]]
title = "App"

[[g.services]]
title = "App"
`))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err: got %T (%v), want *ParseError", err, err)
	}
}

func TestStats(t *testing.T) {
	doc, err := Load(writeDoc(t, sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := doc.Stats()
	if s.Groups != 2 || s.Services != 3 || s.PingWidgets != 1 || s.SonarrWidgets != 1 {
		t.Errorf("stats: got %+v", s)
	}
}
