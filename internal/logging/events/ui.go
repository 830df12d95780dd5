package events

import "github.com/atomicstack/reportlens/internal/logging"

type UITracer struct{}

type JumpTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Jump    = JumpTracer{}
	Command = CommandTracer{}
)

func (UITracer) Key(key string) {
	logging.Trace("ui.key", map[string]interface{}{"key": key})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) Click(x, y, index int) {
	logging.Trace("ui.click", map[string]interface{}{"x": x, "y": y, "index": index})
}

func (JumpTracer) Open() {
	logging.Trace("jump.open", nil)
}

func (JumpTracer) Query(query string, matches int) {
	logging.Trace("jump.query", map[string]interface{}{"query": query, "matches": matches})
}

func (JumpTracer) Select(query string, index int) {
	logging.Trace("jump.select", map[string]interface{}{"query": query, "index": index})
}

func (JumpTracer) Cancel() {
	logging.Trace("jump.cancel", nil)
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
