package scroll

import (
	"testing"
	"time"

	"github.com/atomicstack/reportlens/internal/section"
	"github.com/atomicstack/reportlens/internal/ui/state"
)

// three sections over 100 lines: [0,39] [40,79] [80,99]
func testFocus() *state.Focus {
	return state.NewFocus([]section.Resolved{
		{ID: "run", StartLine: 0, EndLine: 39},
		{ID: "growth", StartLine: 40, MatchLine: 40, EndLine: 79},
		{ID: "footer", StartLine: 80, MatchLine: 80, EndLine: 99},
	})
}

func testLayout() Layout {
	return Layout{
		ContentHeight:     20,
		ContentRows:       100,
		ExplanationHeight: 10,
		ExplanationRows:   40,
		Blocks:            []int{2, 12, 25},
	}
}

func settle(t *testing.T, s *Synchronizer, gen uint64) Frame {
	t.Helper()
	for i := 0; i < 1000; i++ {
		frame, ok := s.Advance(gen)
		if !ok {
			t.Fatalf("frame %d rejected", i)
		}
		if frame.Done {
			return frame
		}
	}
	t.Fatalf("animation never settled")
	return Frame{}
}

func TestContentTargetAlignsMidpoint(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	layout := testLayout()
	cases := []struct {
		name string
		sec  section.Resolved
		want int
	}{
		// midpoint 15, 35% of 20 rows is 7
		{"middle", section.Resolved{StartLine: 10, EndLine: 19}, 8},
		{"clamped top", section.Resolved{StartLine: 0, EndLine: 2}, 0},
		{"clamped bottom", section.Resolved{StartLine: 95, EndLine: 99}, 80},
		{"single line", section.Resolved{StartLine: 50, EndLine: 50}, 43},
	}
	for _, tc := range cases {
		if got := s.ContentTarget(tc.sec, layout); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}

	short := layout
	short.ContentRows = 5
	if got := s.ContentTarget(section.Resolved{StartLine: 3, EndLine: 4}, short); got != 0 {
		t.Fatalf("expected 0 when content fits the viewport, got %d", got)
	}
}

func TestContentTargetHonoursLineHeightAndAlign(t *testing.T) {
	s := New(Config{Align: 0.5, LineHeight: 2}, testFocus())
	layout := Layout{ContentHeight: 10, ContentRows: 200}
	// midpoint line 20 -> row 40, minus half of 10
	if got := s.ContentTarget(section.Resolved{StartLine: 10, EndLine: 30}, layout); got != 35 {
		t.Fatalf("expected 35, got %d", got)
	}
}

func TestExplanationTargetClampsToScrollableRange(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	layout := testLayout()
	if got := s.ExplanationTarget(1, layout); got != 12 {
		t.Fatalf("expected block offset 12, got %d", got)
	}
	if got := s.ExplanationTarget(2, layout); got != 25 {
		t.Fatalf("expected block offset 25, got %d", got)
	}
	layout.Blocks[2] = 35
	if got := s.ExplanationTarget(2, layout); got != 30 {
		t.Fatalf("expected clamp to 30, got %d", got)
	}
}

func TestImmediateFocusCompletesSynchronously(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	tr, ok := s.FocusIndex(1, testLayout(), false)
	if !ok {
		t.Fatalf("expected transition")
	}
	if tr.Animated || s.Guarded() {
		t.Fatalf("expected immediate transition to leave the guard idle")
	}
	if tr.Index != 1 || tr.Content != 53 || tr.Explanation != 12 || !tr.MoveContent {
		t.Fatalf("unexpected transition %#v", tr)
	}
	if s.Focus().Active() != 1 {
		t.Fatalf("expected active 1, got %d", s.Focus().Active())
	}
}

func TestFocusIndexIgnoresOutOfRange(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	s.FocusIndex(2, testLayout(), false)
	gen := s.Generation()
	for _, idx := range []int{-1, 3} {
		if _, ok := s.FocusIndex(idx, testLayout(), true); ok {
			t.Fatalf("expected index %d to be ignored", idx)
		}
	}
	if s.Focus().Active() != 2 || s.Generation() != gen || s.Guarded() {
		t.Fatalf("expected state untouched by out-of-range focus")
	}
}

func TestStepAtEdgesIsNoOp(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	if _, ok := s.Step(-1, testLayout(), true); ok {
		t.Fatalf("expected step(-1) at first section to be a no-op")
	}
	s.FocusIndex(2, testLayout(), false)
	if _, ok := s.Step(1, testLayout(), true); ok {
		t.Fatalf("expected step(+1) at last section to be a no-op")
	}
	if s.Guarded() {
		t.Fatalf("expected no guard after no-op steps")
	}
}

func TestAnimatedTransitionGuardsManualScroll(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	tr, ok := s.Step(1, testLayout(), true)
	if !ok || !tr.Animated {
		t.Fatalf("expected animated transition, got %#v", tr)
	}
	if s.Phase() != InFlight {
		t.Fatalf("expected in-flight phase, got %s", s.Phase())
	}

	layout := testLayout()
	if _, ok := s.ManualScroll(85, layout); ok {
		t.Fatalf("expected manual scroll to be suppressed while in flight")
	}
	if s.Focus().Active() != 1 {
		t.Fatalf("expected focus to stay on 1, got %d", s.Focus().Active())
	}

	frame := settle(t, s, tr.Generation)
	if frame.Content != tr.Content || frame.Explanation != tr.Explanation {
		t.Fatalf("expected final frame on targets %d/%d, got %#v", tr.Content, tr.Explanation, frame)
	}
	if s.Guarded() {
		t.Fatalf("expected guard released once the animation settled")
	}

	if _, ok := s.ManualScroll(85, layout); !ok {
		t.Fatalf("expected manual scroll to move focus after release")
	}
	if s.Focus().Active() != 2 {
		t.Fatalf("expected focus 2, got %d", s.Focus().Active())
	}
}

func TestAnimationFramesApproachTarget(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	tr, _ := s.FocusIndex(2, testLayout(), true)
	first, ok := s.Advance(tr.Generation)
	if !ok || first.Done {
		t.Fatalf("expected an intermediate frame, got %#v", first)
	}
	if first.Content <= 0 || first.Content > tr.Content {
		t.Fatalf("expected first frame between start and target, got %d", first.Content)
	}
}

func TestManualScrollMovesOnlyExplanation(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	layout := testLayout()
	layout.ContentOffset = 40
	tr, ok := s.ManualScroll(45, layout)
	if !ok {
		t.Fatalf("expected focus change")
	}
	if tr.Source != Manual || tr.Animated || tr.MoveContent {
		t.Fatalf("expected immediate manual transition, got %#v", tr)
	}
	if tr.Content != 45 || tr.Explanation != 12 {
		t.Fatalf("expected content kept at 45 and explanation at 12, got %#v", tr)
	}
	if _, ok := s.ManualScroll(50, layout); ok {
		t.Fatalf("expected no transition while staying inside the same section")
	}
	if _, ok := s.ManualScroll(500, layout); ok {
		t.Fatalf("expected no transition past the last line")
	}
}

func TestExpireReleasesOnlyCurrentGeneration(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	first, _ := s.Step(1, testLayout(), true)
	second, _ := s.Step(1, testLayout(), true)
	if _, ok := s.Expire(first.Generation); ok {
		t.Fatalf("expected stale timeout to be ignored")
	}
	if !s.Guarded() {
		t.Fatalf("expected guard to stay up for the newer transition")
	}
	if _, ok := s.Advance(first.Generation); ok {
		t.Fatalf("expected stale frame to be ignored")
	}
	frame, ok := s.Expire(second.Generation)
	if !ok || !frame.Done {
		t.Fatalf("expected current timeout to finish the transition")
	}
	if frame.Content != second.Content || frame.Explanation != second.Explanation {
		t.Fatalf("expected expiry to land on targets, got %#v", frame)
	}
	if s.Guarded() {
		t.Fatalf("expected guard released")
	}
	if _, ok := s.Expire(second.Generation); ok {
		t.Fatalf("expected second expiry to be a no-op")
	}
}

func TestResetClearsGuardAndInvalidatesTimers(t *testing.T) {
	s := New(DefaultConfig(), testFocus())
	tr, _ := s.Step(1, testLayout(), true)
	next := testFocus()
	s.Reset(next)
	if s.Guarded() {
		t.Fatalf("expected reset to clear the guard")
	}
	if s.Focus() != next {
		t.Fatalf("expected reset to swap the focus tracker")
	}
	if _, ok := s.Advance(tr.Generation); ok {
		t.Fatalf("expected frames from before the reset to be ignored")
	}
	if _, ok := s.Expire(tr.Generation); ok {
		t.Fatalf("expected timeouts from before the reset to be ignored")
	}
	if _, ok := s.ManualScroll(45, testLayout()); !ok {
		t.Fatalf("expected manual scroll to work right after reset")
	}
}

func TestEmptyFocusIsInert(t *testing.T) {
	s := New(DefaultConfig(), state.NewFocus(nil))
	if _, ok := s.FocusIndex(0, testLayout(), true); ok {
		t.Fatalf("expected no transition without sections")
	}
	if _, ok := s.Step(1, testLayout(), true); ok {
		t.Fatalf("expected no step without sections")
	}
	if _, ok := s.ManualScroll(3, testLayout()); ok {
		t.Fatalf("expected no manual transition without sections")
	}
}

func TestConfigNormalization(t *testing.T) {
	s := New(Config{Align: 3, LineHeight: -1}, nil)
	cfg := s.Config()
	if cfg.Align != 1 || cfg.LineHeight != 1 || cfg.FPS != 60 || cfg.GuardTimeout != 600*time.Millisecond {
		t.Fatalf("unexpected normalized config %#v", cfg)
	}
	if got := cfg.FrameInterval(); got != time.Second/60 {
		t.Fatalf("unexpected frame interval %v", got)
	}
}

func TestPhaseAndSourceNames(t *testing.T) {
	if Idle.String() != "idle" || InFlight.String() != "in-flight" {
		t.Fatalf("unexpected phase names %q/%q", Idle, InFlight)
	}
	if Programmatic.String() != "programmatic" || Manual.String() != "manual" {
		t.Fatalf("unexpected source names %q/%q", Programmatic, Manual)
	}
}
