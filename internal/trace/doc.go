// Package trace records spans of a tagcheck run so slow or stuck checks can
// be diagnosed.
//
// Enable it from the command line:
//
//	tagcheck check --trace=- --trace-level=file ./src
//
// Tracers: Nop (disabled), StreamTracer (writes each event immediately),
// RingTracer (keeps the last N events for a dump on failure) and MultiTracer.
//
// Levels select scopes: phase emits driver and pass boundaries, file adds one
// span per Java file, debug adds element-level events.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "validate", 0)
//	defer span.End("")
package trace
