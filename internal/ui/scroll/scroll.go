// Package scroll keeps the content pane and the explanation pane aligned
// with the focused section.
//
// Programmatic transitions (keyboard, clicks, document switches) move both
// panes; an animated transition puts the synchronizer InFlight until the
// spring settles or the guard timeout fires. Manual scrolling of the content
// pane feeds back into the focus, but only while Idle, which is what keeps
// the two directions from chasing each other.
package scroll

import (
	"math"
	"time"

	"github.com/atomicstack/reportlens/internal/section"
	"github.com/atomicstack/reportlens/internal/ui/state"
	"github.com/charmbracelet/harmonica"
)

// Phase is the guard state.
type Phase int

const (
	// Idle accepts manual scrolling.
	Idle Phase = iota
	// InFlight ignores manual scrolling until the transition settles or expires.
	InFlight
)

// String returns the phase name used in log traces.
func (p Phase) String() string {
	if p == InFlight {
		return "in-flight"
	}
	return "idle"
}

// Source identifies what started a transition.
type Source int

const (
	// Programmatic transitions come from navigation keys and clicks.
	Programmatic Source = iota
	// Manual transitions follow the user scrolling the content pane.
	Manual
)

// String returns the source name used in log traces.
func (s Source) String() string {
	if s == Manual {
		return "manual"
	}
	return "programmatic"
}

// Config tunes alignment and animation.
type Config struct {
	// Align is the fraction of the content viewport above the focused
	// section's midpoint line (0 top, 0.5 centre).
	Align        float64
	LineHeight   int
	GuardTimeout time.Duration
	FPS          int
	Frequency    float64
	Damping      float64
}

// DefaultConfig returns the settings used by the viewer.
func DefaultConfig() Config {
	return Config{
		Align:        0.35,
		LineHeight:   1,
		GuardTimeout: 600 * time.Millisecond,
		FPS:          60,
		Frequency:    16,
		Damping:      1,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Align < 0 {
		c.Align = 0
	}
	if c.Align > 1 {
		c.Align = 1
	}
	if c.LineHeight < 1 {
		c.LineHeight = def.LineHeight
	}
	if c.FPS <= 0 {
		c.FPS = def.FPS
	}
	if c.Frequency <= 0 {
		c.Frequency = def.Frequency
	}
	if c.Damping <= 0 {
		c.Damping = def.Damping
	}
	if c.GuardTimeout <= 0 {
		c.GuardTimeout = def.GuardTimeout
	}
	return c
}

// FrameInterval is the delay between animation frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.normalized().FPS)
}

// Layout describes both panes at the moment a transition starts. Rows are
// terminal rows; Blocks holds the top row of each explanation block, in
// section order.
type Layout struct {
	ContentHeight     int
	ContentRows       int
	ContentOffset     int
	ExplanationHeight int
	ExplanationRows   int
	ExplanationOffset int
	Blocks            []int
}

// Transition is the result of a focus change.
type Transition struct {
	Index       int
	Source      Source
	Animated    bool
	Generation  uint64
	Content     int
	Explanation int
	// MoveContent is false for manual transitions: the user already put
	// the content pane where they want it.
	MoveContent bool
}

// Frame is one animation step.
type Frame struct {
	Content     int
	Explanation int
	Done        bool
}

type axis struct {
	pos, vel, target float64
}

func (a *axis) snap() {
	a.pos = a.target
	a.vel = 0
}

func (a axis) settled() bool {
	return math.Abs(a.pos-a.target) < 0.5 && math.Abs(a.vel) < 1
}

func (a axis) row() int {
	return int(math.Round(a.pos))
}

// Synchronizer couples the focus tracker to the two pane offsets.
type Synchronizer struct {
	cfg         Config
	focus       *state.Focus
	spring      harmonica.Spring
	phase       Phase
	generation  uint64
	content     axis
	explanation axis
}

// New builds a synchronizer driving focus.
func New(cfg Config, focus *state.Focus) *Synchronizer {
	cfg = cfg.normalized()
	return &Synchronizer{
		cfg:    cfg,
		focus:  focus,
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.Frequency, cfg.Damping),
	}
}

// Config returns the normalized configuration.
func (s *Synchronizer) Config() Config { return s.cfg }

// Focus returns the tracker currently driven.
func (s *Synchronizer) Focus() *state.Focus { return s.focus }

// Phase returns the guard state.
func (s *Synchronizer) Phase() Phase { return s.phase }

// Guarded reports whether manual scrolling is currently ignored.
func (s *Synchronizer) Guarded() bool { return s.phase == InFlight }

// Generation identifies the latest transition; frames and timeouts carrying
// an older generation are ignored.
func (s *Synchronizer) Generation() uint64 { return s.generation }

// Reset drops any transition in flight and starts driving focus. It must be
// called at the start of every document load.
func (s *Synchronizer) Reset(focus *state.Focus) {
	s.focus = focus
	s.phase = Idle
	s.generation++
	s.content = axis{}
	s.explanation = axis{}
}

// ContentTarget returns the content offset that places the midpoint of sec
// at the configured fraction of the viewport.
func (s *Synchronizer) ContentTarget(sec section.Resolved, layout Layout) int {
	lh := s.cfg.LineHeight
	span := sec.EndLine - sec.StartLine
	if span < 0 {
		span = 0
	}
	mid := int(math.Round(float64(sec.StartLine) + float64(span)/2))
	desired := mid*lh - int(float64(layout.ContentHeight)*s.cfg.Align)
	return clamp(desired, layout.ContentRows-layout.ContentHeight)
}

// ExplanationTarget returns the offset of the explanation block at index.
func (s *Synchronizer) ExplanationTarget(index int, layout Layout) int {
	if index < 0 || index >= len(layout.Blocks) {
		return clamp(layout.ExplanationOffset, layout.ExplanationRows-layout.ExplanationHeight)
	}
	return clamp(layout.Blocks[index], layout.ExplanationRows-layout.ExplanationHeight)
}

// FocusIndex focuses index and aligns both panes. Out-of-range indexes are
// ignored. Re-focusing the active section re-aligns the panes.
func (s *Synchronizer) FocusIndex(index int, layout Layout, animate bool) (Transition, bool) {
	if index < 0 || index >= s.focus.Len() {
		return Transition{}, false
	}
	s.focus.SetActive(index)
	return s.begin(Programmatic, layout, animate), true
}

// Step moves the focus by delta. Steps past either end are no-ops.
func (s *Synchronizer) Step(delta int, layout Layout, animate bool) (Transition, bool) {
	if !s.focus.Step(delta) {
		return Transition{}, false
	}
	return s.begin(Programmatic, layout, animate), true
}

// ManualScroll maps a user-set content offset back to a section. When that
// section differs from the active one the focus follows without moving the
// content pane. Nothing happens while a programmatic transition is in flight.
func (s *Synchronizer) ManualScroll(offset int, layout Layout) (Transition, bool) {
	if s.Guarded() {
		return Transition{}, false
	}
	if offset < 0 {
		offset = 0
	}
	idx, ok := s.focus.FindByLine(offset / s.cfg.LineHeight)
	if !ok || idx == s.focus.Active() {
		return Transition{}, false
	}
	s.focus.SetActive(idx)
	layout.ContentOffset = offset
	return s.begin(Manual, layout, false), true
}

func (s *Synchronizer) begin(src Source, layout Layout, animate bool) Transition {
	s.generation++
	idx := s.focus.Active()
	contentTarget := layout.ContentOffset
	if src == Programmatic {
		if cur, ok := s.focus.Current(); ok {
			contentTarget = s.ContentTarget(cur, layout)
		}
	}
	s.content = axis{pos: float64(layout.ContentOffset), target: float64(contentTarget)}
	s.explanation = axis{
		pos:    float64(layout.ExplanationOffset),
		target: float64(s.ExplanationTarget(idx, layout)),
	}
	t := Transition{
		Index:       idx,
		Source:      src,
		Animated:    animate,
		Generation:  s.generation,
		Content:     contentTarget,
		Explanation: int(s.explanation.target),
		MoveContent: src == Programmatic,
	}
	if animate && !(s.content.settled() && s.explanation.settled()) {
		s.phase = InFlight
		return t
	}
	// immediate moves complete synchronously
	t.Animated = false
	s.content.snap()
	s.explanation.snap()
	s.phase = Idle
	return t
}

// Advance computes the next animation frame of transition gen. The last
// frame lands exactly on the targets and releases the guard.
func (s *Synchronizer) Advance(gen uint64) (Frame, bool) {
	if gen != s.generation || s.phase != InFlight {
		return Frame{}, false
	}
	s.content.pos, s.content.vel = s.spring.Update(s.content.pos, s.content.vel, s.content.target)
	s.explanation.pos, s.explanation.vel = s.spring.Update(s.explanation.pos, s.explanation.vel, s.explanation.target)
	if s.content.settled() && s.explanation.settled() {
		return s.finish(), true
	}
	return Frame{Content: s.content.row(), Explanation: s.explanation.row()}, true
}

// Expire is the fallback for a transition whose completion was never
// observed: if gen is still in flight it jumps to the targets and releases
// the guard.
func (s *Synchronizer) Expire(gen uint64) (Frame, bool) {
	if gen != s.generation || s.phase != InFlight {
		return Frame{}, false
	}
	return s.finish(), true
}

func (s *Synchronizer) finish() Frame {
	s.content.snap()
	s.explanation.snap()
	s.phase = Idle
	return Frame{Content: s.content.row(), Explanation: s.explanation.row(), Done: true}
}

func clamp(v, limit int) int {
	if limit < 0 {
		limit = 0
	}
	if v > limit {
		v = limit
	}
	if v < 0 {
		v = 0
	}
	return v
}
