// Package trace is the compiler's log: spans and point events recorded per
// batch, per lowering pass, per function and, at the finest level, per
// dispatched syntax tree node.
//
//	hue build --trace=- --trace-level=debug src/
//	hue build --trace-level=error src/   # dumps recent events if a pass fails
//
// Sinks are StreamTracer (text or NDJSON as events happen), RingTracer (last
// N events in memory) and Tee. Nop is used when tracing is off.
//
// The tracer and the current parent span travel in a context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "codegen", trace.ParentSpan(ctx))
//	defer span.End("")
package trace
