package events

import "github.com/atomicstack/reportlens/internal/logging"

type DocumentTracer struct{}

type WatchTracer struct{}

var (
	Document = DocumentTracer{}
	Watch    = WatchTracer{}
)

func (DocumentTracer) Load(seq uint64, location string, definitions bool) {
	logging.Trace("document.load", map[string]interface{}{"seq": seq, "location": location, "definitions": definitions})
}

func (DocumentTracer) Loaded(seq uint64, location string, lines, sections int) {
	logging.Trace("document.loaded", map[string]interface{}{
		"seq":      seq,
		"location": location,
		"lines":    lines,
		"sections": sections,
	})
}

func (DocumentTracer) Failed(seq uint64, location string, err error) {
	if err == nil {
		return
	}
	logging.Trace("document.failed", map[string]interface{}{"seq": seq, "location": location, "error": err.Error()})
}

func (DocumentTracer) Stale(seq, current uint64) {
	logging.Trace("document.stale", map[string]interface{}{"seq": seq, "current": current})
}

func (DocumentTracer) Switch(from, to int, preserve string) {
	logging.Trace("document.switch", map[string]interface{}{"from": from, "to": to, "preserve": preserve})
}

func (WatchTracer) Event(kind, path string) {
	logging.Trace("watch.event", map[string]interface{}{"kind": kind, "path": path})
}

func (WatchTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("watch.error", map[string]interface{}{"error": err.Error()})
}
