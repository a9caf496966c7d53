package weave

import "github.com/google/uuid"

// InstrumentationEventKind enumerates the lifecycle events a render can
// report, mirroring the original engine's instrumentation hook so host
// code can trace render behavior without reaching into the renderer.
type InstrumentationEventKind int

const (
	EventRenderStart InstrumentationEventKind = iota
	EventRenderEnd
	EventSetStatementStart
	EventSetStatementEnd
	EventInplaceOptUsed
	EventInplaceOptSkipped
	EventForLoopStart
	EventForLoopIteration
	EventForLoopEnd
	EventIncludeStart
	EventIncludeEnd
)

func (k InstrumentationEventKind) String() string {
	switch k {
	case EventRenderStart:
		return "render_start"
	case EventRenderEnd:
		return "render_end"
	case EventSetStatementStart:
		return "set_statement_start"
	case EventSetStatementEnd:
		return "set_statement_end"
	case EventInplaceOptUsed:
		return "inplace_opt_used"
	case EventInplaceOptSkipped:
		return "inplace_opt_skipped"
	case EventForLoopStart:
		return "for_loop_start"
	case EventForLoopIteration:
		return "for_loop_iteration"
	case EventForLoopEnd:
		return "for_loop_end"
	case EventIncludeStart:
		return "include_start"
	case EventIncludeEnd:
		return "include_end"
	default:
		return "unknown"
	}
}

// InstrumentationEvent is one point-in-time fact about a render in
// progress: which lifecycle event fired, the name it concerns (a
// variable, loop binding, or template name), a free-form detail string
// (e.g. an in-place fast-path skip reason), and a count where one
// applies (loop length, current index).
type InstrumentationEvent struct {
	Event InstrumentationEventKind
	Name  string
	Detail string
	Extra string
	Count int
}

// InstrumentationCallback receives every instrumentation event a render
// emits. It must return quickly and must not call back into the
// Environment or Template that invoked it.
type InstrumentationCallback func(InstrumentationEvent)

func (env *Environment) instrument(ev InstrumentationEvent) {
	cb := env.instrumentationCallback
	if cb == nil {
		return
	}
	cb(ev)
}

// SetInstrumentationCallback registers the hook invoked for every
// render lifecycle event. Pass nil to disable instrumentation.
func (env *Environment) SetInstrumentationCallback(cb InstrumentationCallback) {
	env.instrumentationCallback = cb
}

func newRenderID() string {
	return uuid.NewString()
}
