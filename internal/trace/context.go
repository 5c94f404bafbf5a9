package trace

import "context"

type ctxKey struct{}

// ctxValue carries the tracer and the current parent span together.
type ctxValue struct {
	tracer Tracer
	span   uint64
}

func fromCtx(ctx context.Context) ctxValue {
	if ctx == nil {
		return ctxValue{}
	}
	v, _ := ctx.Value(ctxKey{}).(ctxValue)
	return v
}

func withValue(ctx context.Context, v ctxValue) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, v)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t := fromCtx(ctx).tracer; t != nil {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx, keeping any parent span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	v := fromCtx(ctx)
	v.tracer = t
	return withValue(ctx, v)
}

// WithSpan makes span the parent of spans begun from ctx.
func WithSpan(ctx context.Context, span *Span) context.Context {
	v := fromCtx(ctx)
	v.span = span.ID()
	return withValue(ctx, v)
}

// ParentSpan returns the span set by WithSpan, or 0.
func ParentSpan(ctx context.Context) uint64 {
	return fromCtx(ctx).span
}
