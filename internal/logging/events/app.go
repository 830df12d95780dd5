package events

import "github.com/atomicstack/reportlens/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) List(documents int) {
	logging.Trace("app.list", map[string]interface{}{"documents": documents})
}
