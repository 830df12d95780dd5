package ui

import (
	"strings"
	"testing"
)

func TestJumpFocusesBestMatch(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("/"))
	if !m.jump.active {
		t.Fatalf("expected jump prompt to open")
	}
	h.Send(keyMsg("larg"))
	if view := h.View(); !strings.Contains(view, "→ Largest Files") {
		t.Fatalf("expected preview of Largest Files, got:\n%s", view)
	}
	h.Send(keyMsg("enter"))
	if m.jump.active {
		t.Fatalf("expected prompt to close on enter")
	}
	if id := m.Session().CurrentID(); id != "largest-files" {
		t.Fatalf("expected largest-files, got %q", id)
	}
	if m.content.YOffset != 14 {
		t.Fatalf("expected content aligned to 14, got %d", m.content.YOffset)
	}
}

func TestJumpKeysDoNotNavigate(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("/"))
	h.Send(keyMsg("q"))
	if h.Quitting() {
		t.Fatalf("expected q to be typed into the prompt")
	}
	h.Send(keyMsg("esc"))
	if m.jump.active || h.Quitting() {
		t.Fatalf("expected esc to only close the prompt")
	}
	if m.Session().Focus().Active() != 0 {
		t.Fatalf("expected focus unchanged after cancel")
	}
}

func TestJumpWithoutMatchReportsInfo(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("/"))
	h.Send(keyMsg("zzz"))
	if view := h.View(); !strings.Contains(view, "(no matches)") {
		t.Fatalf("expected no-match preview, got:\n%s", view)
	}
	h.Send(keyMsg("enter"))
	if m.Session().Focus().Active() != 0 {
		t.Fatalf("expected focus unchanged")
	}
	if view := h.View(); !strings.Contains(view, `no section matches "zzz"`) {
		t.Fatalf("expected info message, got:\n%s", view)
	}
}

func TestJumpWithoutSections(t *testing.T) {
	fetcher := sampleFetcher()
	fetcher.Set("a.txt", "nothing recognisable here\n")
	m := newTestModel(t, fetcher, Options{}, "a.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("/"))
	if m.jump.active {
		t.Fatalf("expected prompt to stay closed without sections")
	}
	if !strings.Contains(h.View(), "no sections to jump to") {
		t.Fatalf("expected info about missing sections")
	}
}
