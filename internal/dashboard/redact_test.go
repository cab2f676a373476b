package dashboard

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRedact_DropsSecrets(t *testing.T) {
	doc := sampleDocument(t)

	out, err := json.Marshal(Redact(doc))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(out)

	if strings.Contains(body, "abc123") {
		t.Error("redacted output contains the API key value")
	}
	if strings.Contains(body, `"key":"abc123"`) || strings.Contains(body, `"url"`) {
		t.Errorf("redacted output retains widget url/key fields: %s", body)
	}
	// "key" appears only as the group-key field, never inside a widget.
	var decoded struct {
		Groups []struct {
			Key      string `json:"key"`
			Services []struct {
				Widget map[string]any `json:"widget"`
			} `json:"services"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, g := range decoded.Groups {
		for _, s := range g.Services {
			if s.Widget == nil {
				continue
			}
			if len(s.Widget) != 1 {
				t.Errorf("widget in group %q has fields %v, want only name", g.Key, s.Widget)
			}
			if _, ok := s.Widget["name"]; !ok {
				t.Errorf("widget in group %q missing name", g.Key)
			}
		}
	}
}

func TestRedact_SonarrWidgetIsNameOnly(t *testing.T) {
	doc := sampleDocument(t)

	view := Redact(doc)
	if view.Groups[0].Key != "media" {
		t.Fatalf("first group: got %q, want media", view.Groups[0].Key)
	}
	w := view.Groups[0].Services[0].Widget
	if w == nil {
		t.Fatal("Sonarr widget missing from redacted view")
	}
	if w.Name != "sonarr" {
		t.Errorf("widget name: got %q, want sonarr", w.Name)
	}
}

func TestRedact_PreservesOrderAndFields(t *testing.T) {
	doc := sampleDocument(t)
	view := Redact(doc)

	if len(view.Groups) != 2 || view.Groups[0].Key != "media" || view.Groups[1].Key != "infra" {
		t.Fatalf("group order: got %+v", view.Groups)
	}

	media := view.Groups[0]
	if media.Name != "Media" || media.Columns != 2 {
		t.Errorf("media: got %q/%d", media.Name, media.Columns)
	}
	if len(media.Services) != 2 {
		t.Fatalf("media services: got %d, want 2", len(media.Services))
	}
	first := media.Services[0]
	if first.Title != "Sonarr" || first.Href != "http://sonarr.local:8989" ||
		first.ImgSrc != "/icons/sonarr.png" || first.Width != 2 || first.Height != 1 {
		t.Errorf("first service: got %+v", first)
	}
	if media.Services[1].Widget != nil {
		t.Error("Jellyfin has no widget but redacted view reports one")
	}
}

func TestRedact_DoesNotMutateInput(t *testing.T) {
	doc := sampleDocument(t)
	_ = Redact(doc)

	w := doc.Groups["media"].Services[0].Widget
	if w.Key != "abc123" || w.URL != "http://sonarr.local:8989" {
		t.Errorf("input document mutated: %+v", w)
	}
}
