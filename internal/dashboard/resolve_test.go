package dashboard

import (
	"errors"
	"testing"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := Load(writeDoc(t, sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func TestService_Found(t *testing.T) {
	doc := sampleDocument(t)

	svc, err := doc.Service("media", "Sonarr")
	if err != nil {
		t.Fatalf("Service: %v", err)
	}
	if svc.Title != "Sonarr" {
		t.Errorf("title: got %q, want Sonarr", svc.Title)
	}
	// Same snapshot must hand back the same shared instance.
	if again, _ := doc.Service("media", "Sonarr"); again != svc {
		t.Error("Service: expected identical pointer on repeat lookup")
	}
}

func TestService_GroupNotFound(t *testing.T) {
	doc := sampleDocument(t)

	_, err := doc.Service("games", "Sonarr")
	var gerr *GroupNotFoundError
	if !errors.As(err, &gerr) {
		t.Fatalf("err: got %T (%v), want *GroupNotFoundError", err, err)
	}
	if gerr.Group != "games" {
		t.Errorf("group: got %q, want games", gerr.Group)
	}
}

func TestService_ServiceNotFound(t *testing.T) {
	doc := sampleDocument(t)

	_, err := doc.Service("media", "Radarr")
	var serr *ServiceNotFoundError
	if !errors.As(err, &serr) {
		t.Fatalf("err: got %T (%v), want *ServiceNotFoundError", err, err)
	}
	if serr.Group != "media" || serr.Title != "Radarr" {
		t.Errorf("got %q/%q, want media/Radarr", serr.Group, serr.Title)
	}
}

func TestWidget_Found(t *testing.T) {
	doc := sampleDocument(t)

	w, err := doc.Widget("infra", "Router")
	if err != nil {
		t.Fatalf("Widget: %v", err)
	}
	if w.Name != WidgetPing || w.URL != "https://router.local" {
		t.Errorf("widget: got %+v", w)
	}
}

func TestWidget_NotConfigured(t *testing.T) {
	doc := sampleDocument(t)

	_, err := doc.Widget("media", "Jellyfin")
	var werr *WidgetNotConfiguredError
	if !errors.As(err, &werr) {
		t.Fatalf("err: got %T (%v), want *WidgetNotConfiguredError", err, err)
	}
}
