package events

import "github.com/atomicstack/reportlens/internal/logging"

type FocusTracer struct{}

type ScrollTracer struct{}

var (
	Focus  = FocusTracer{}
	Scroll = ScrollTracer{}
)

func (FocusTracer) Set(id string, index int, source string) {
	logging.Trace("focus.set", map[string]interface{}{"id": id, "index": index, "source": source})
}

func (FocusTracer) Restore(id string, index int, preserved bool) {
	logging.Trace("focus.restore", map[string]interface{}{"id": id, "index": index, "preserved": preserved})
}

// Suppressed records manual scroll input dropped while a programmatic
// transition owns the panes.
func (FocusTracer) Suppressed(offset int) {
	logging.Trace("focus.suppressed", map[string]interface{}{"offset": offset})
}

func (ScrollTracer) Begin(generation uint64, index, content, explanation int, animated bool) {
	logging.Trace("scroll.begin", map[string]interface{}{
		"generation":  generation,
		"index":       index,
		"content":     content,
		"explanation": explanation,
		"animated":    animated,
	})
}

func (ScrollTracer) Settle(generation uint64) {
	logging.Trace("scroll.settle", map[string]interface{}{"generation": generation})
}

func (ScrollTracer) Expire(generation uint64) {
	logging.Trace("scroll.expire", map[string]interface{}{"generation": generation})
}

func (ScrollTracer) Reset(generation uint64) {
	logging.Trace("scroll.reset", map[string]interface{}{"generation": generation})
}
