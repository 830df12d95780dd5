package ui

import (
	"testing"
	"time"

	"github.com/atomicstack/reportlens/internal/testutil"
	"github.com/atomicstack/reportlens/internal/ui/scroll"
	tea "github.com/charmbracelet/bubbletea"
)

func TestStepSectionAlignsBothPanes(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("down"))
	if id := m.Session().CurrentID(); id != "repository" {
		t.Fatalf("expected repository, got %q", id)
	}
	// midpoint line 15 placed 9 rows below the top of a 27-row pane
	if m.content.YOffset != 6 {
		t.Fatalf("expected content offset 6, got %d", m.content.YOffset)
	}
	want := m.Session().Sync().ExplanationTarget(1, m.layout())
	if m.explain.YOffset != want {
		t.Fatalf("expected explanation offset %d, got %d", want, m.explain.YOffset)
	}

	h.Send(keyMsg("down"))
	if m.content.YOffset != 14 {
		t.Fatalf("expected content offset clamped to 14, got %d", m.content.YOffset)
	}

	h.Send(keyMsg("up"))
	h.Send(keyMsg("up"))
	h.Send(keyMsg("up"))
	if m.Session().Focus().Active() != 0 || m.content.YOffset != 0 {
		t.Fatalf("expected focus clamped at first section, got %d offset %d", m.Session().Focus().Active(), m.content.YOffset)
	}

	for i := 0; i < 10; i++ {
		h.Send(keyMsg("down"))
	}
	if id := m.Session().CurrentID(); id != "footer" {
		t.Fatalf("expected focus clamped at footer, got %q", id)
	}
}

func TestDigitKeysSetActiveSection(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("3"))
	if m.Session().Focus().Active() != 2 {
		t.Fatalf("expected section 3 active, got %d", m.Session().Focus().Active()+1)
	}
	h.Send(keyMsg("9"))
	if m.Session().Focus().Active() != 2 {
		t.Fatalf("expected out-of-range digit to be ignored, got %d", m.Session().Focus().Active())
	}
}

func TestDocumentSwitchPreservesSection(t *testing.T) {
	fetcher := sampleFetcher()
	fetcher.Set("b.txt", testutil.Report("Repository", "Run", "Largest Files", "Historic & Estimated Growth"))
	m := newTestModel(t, fetcher, Options{}, "a.txt", "b.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("3"))
	if id := m.Session().CurrentID(); id != "growth" {
		t.Fatalf("expected growth, got %q", id)
	}
	h.Send(keyMsg("right"))
	s := m.Session()
	if s.Catalog().Index() != 1 {
		t.Fatalf("expected second document, got %d", s.Catalog().Index())
	}
	if s.CurrentID() != "growth" || s.Focus().Active() != 3 {
		t.Fatalf("expected growth restored at index 3, got %q at %d", s.CurrentID(), s.Focus().Active())
	}

	h.Send(keyMsg("up"))
	h.Send(keyMsg("left"))
	if s.Catalog().Index() != 0 {
		t.Fatalf("expected first document, got %d", s.Catalog().Index())
	}
	if s.CurrentID() != "largest-files" || s.Focus().Active() != 3 {
		t.Fatalf("expected largest-files restored at index 3, got %q at %d", s.CurrentID(), s.Focus().Active())
	}
}

func TestDocumentSwitchFallsBackToFirstSection(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt", "b.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("3"))
	if id := m.Session().CurrentID(); id != "growth" {
		t.Fatalf("expected growth, got %q", id)
	}
	h.Send(keyMsg("right"))
	if m.Session().Focus().Active() != 0 || m.Session().CurrentID() != "repository" {
		t.Fatalf("expected fallback to the first section, got %q", m.Session().CurrentID())
	}
	if m.content.YOffset != 0 {
		t.Fatalf("expected content aligned to the first section, got %d", m.content.YOffset)
	}
}

func TestDocumentSwitchClampsAtEnds(t *testing.T) {
	fetcher := sampleFetcher()
	m := newTestModel(t, fetcher, Options{}, "a.txt", "b.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("left"))
	if fetcher.Calls("a.txt") != 1 || m.Session().Catalog().Index() != 0 {
		t.Fatalf("expected left on the first document to be a no-op")
	}
	h.Send(keyMsg("right"))
	h.Send(keyMsg("right"))
	if fetcher.Calls("b.txt") != 1 || m.Session().Catalog().Index() != 1 {
		t.Fatalf("expected right on the last document to be a no-op, calls=%d", fetcher.Calls("b.txt"))
	}
}

func TestManualScrollMovesFocusButNotContent(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("G"))
	if m.content.YOffset != 14 {
		t.Fatalf("expected content at the bottom (14), got %d", m.content.YOffset)
	}
	if id := m.Session().CurrentID(); id != "repository" {
		t.Fatalf("expected focus to follow the first visible line, got %q", id)
	}
	want := m.Session().Sync().ExplanationTarget(1, m.layout())
	if m.explain.YOffset != want {
		t.Fatalf("expected explanation to follow to %d, got %d", want, m.explain.YOffset)
	}

	h.Send(keyMsg("enter"))
	if m.content.YOffset != 6 {
		t.Fatalf("expected re-focus to realign content to 6, got %d", m.content.YOffset)
	}

	h.Send(keyMsg("g"))
	if m.content.YOffset != 0 || m.Session().CurrentID() != "run" {
		t.Fatalf("expected top and run, got %d %q", m.content.YOffset, m.Session().CurrentID())
	}

	h.Send(keyMsg("j"))
	if m.content.YOffset != 1 || m.Session().CurrentID() != "run" {
		t.Fatalf("expected one line down inside run, got %d %q", m.content.YOffset, m.Session().CurrentID())
	}

	h.Send(keyMsg("pgdown"))
	if m.content.YOffset != 14 {
		t.Fatalf("expected page down to clamp at 14, got %d", m.content.YOffset)
	}
	h.Send(keyMsg("pgup"))
	if m.content.YOffset != 0 {
		t.Fatalf("expected page up back to 0, got %d", m.content.YOffset)
	}
}

func TestGuardSuppressesManualScrollUntilRelease(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{Animate: true}, "a.txt")
	startHarness(t, m)
	sync := m.Session().Sync()

	if _, cmd := m.Update(keyMsg("down")); cmd == nil {
		t.Fatalf("expected animation commands")
	}
	if !sync.Guarded() {
		t.Fatalf("expected guard while the animation runs")
	}
	gen := sync.Generation()

	m.Update(keyMsg("G"))
	m.Update(tea.MouseMsg{X: 1, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.Session().Focus().Active() != 1 || m.content.YOffset != 0 {
		t.Fatalf("expected manual input ignored while guarded, got active %d offset %d", m.Session().Focus().Active(), m.content.YOffset)
	}

	if _, cmd := m.Update(frameMsg{generation: gen}); cmd == nil {
		t.Fatalf("expected another frame to be scheduled")
	}
	m.Update(guardExpiredMsg{generation: gen - 1})
	if !sync.Guarded() {
		t.Fatalf("expected stale timeout to leave the guard up")
	}

	m.Update(guardExpiredMsg{generation: gen})
	if sync.Guarded() {
		t.Fatalf("expected timeout to release the guard")
	}
	if m.content.YOffset != 6 {
		t.Fatalf("expected expiry to land on the target, got %d", m.content.YOffset)
	}
	if _, cmd := m.Update(frameMsg{generation: gen}); cmd != nil {
		t.Fatalf("expected frames after release to be ignored")
	}

	m.Update(keyMsg("G"))
	if m.content.YOffset != 14 {
		t.Fatalf("expected manual scroll after release, got %d", m.content.YOffset)
	}
}

func TestAnimatedTransitionSettles(t *testing.T) {
	cfg := scroll.DefaultConfig()
	cfg.Frequency = 60
	cfg.FPS = 120
	cfg.GuardTimeout = 150 * time.Millisecond
	m := newTestModel(t, sampleFetcher(), Options{Animate: true, Scroll: cfg}, "a.txt")
	h := startHarness(t, m)

	h.Send(keyMsg("down"))
	if m.Session().Sync().Guarded() {
		t.Fatalf("expected guard released after the animation")
	}
	if m.content.YOffset != 6 {
		t.Fatalf("expected content to settle on 6, got %d", m.content.YOffset)
	}
	want := m.Session().Sync().ExplanationTarget(1, m.layout())
	if m.explain.YOffset != want {
		t.Fatalf("expected explanation to settle on %d, got %d", want, m.explain.YOffset)
	}
}

func TestLoadResetsGuard(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{Animate: true}, "a.txt", "b.txt")
	h := startHarness(t, m)

	m.Update(keyMsg("down"))
	if !m.Session().Sync().Guarded() {
		t.Fatalf("expected guard while animating")
	}
	gen := m.Session().Sync().Generation()
	h.Send(keyMsg("right"))
	if m.Session().Sync().Guarded() {
		t.Fatalf("expected the document load to clear the guard")
	}
	before := m.content.YOffset
	m.Update(frameMsg{generation: gen})
	m.Update(guardExpiredMsg{generation: gen})
	if m.content.YOffset != before {
		t.Fatalf("expected timers of the previous load to be ignored")
	}
}

func TestMouseClicksFocusSections(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
	h := startHarness(t, m)
	h.View()

	var target anchorSpan
	for _, span := range m.anchors {
		if span.index == 3 {
			target = span
		}
	}
	if target.end == 0 {
		t.Fatalf("expected anchor for section 4, got %#v", m.anchors)
	}
	h.Send(tea.MouseMsg{X: target.start, Y: anchorRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if id := m.Session().CurrentID(); id != "largest-files" {
		t.Fatalf("expected anchor click to focus largest-files, got %q", id)
	}

	h.Send(keyMsg("g"))
	h.Send(tea.MouseMsg{X: 5, Y: headerRows + 25, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if id := m.Session().CurrentID(); id != "growth" {
		t.Fatalf("expected content click on line 25 to focus growth, got %q", id)
	}

	h.Send(tea.MouseMsg{X: target.start, Y: anchorRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if id := m.Session().CurrentID(); id != "growth" {
		t.Fatalf("expected release events to be ignored, got %q", id)
	}
}

func TestWheelOverExplanationScrollsOnlyThatPane(t *testing.T) {
	m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
	h := startHarness(t, m)

	maxOffset := m.explain.TotalLineCount() - m.explain.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	want := wheelStep
	if want > maxOffset {
		want = maxOffset
	}
	h.Send(tea.MouseMsg{X: 80, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.explain.YOffset != want {
		t.Fatalf("expected explanation offset %d, got %d", want, m.explain.YOffset)
	}
	if m.content.YOffset != 0 || m.Session().Focus().Active() != 0 {
		t.Fatalf("expected content pane and focus untouched")
	}

	h.Send(tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.content.YOffset != wheelStep {
		t.Fatalf("expected content wheel to scroll %d rows, got %d", wheelStep, m.content.YOffset)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		m := newTestModel(t, sampleFetcher(), Options{}, "a.txt")
		h := startHarness(t, m)
		h.Send(keyMsg(key))
		if !h.Quitting() {
			t.Fatalf("expected %s to quit", key)
		}
	}
}
