package logging

import (
	"context"
	"errors"
	"log/slog"
)

type ctxKey struct{}

// WithRequest returns a context whose log records carry the request id and,
// when known, the authenticated user id.
func WithRequest(ctx context.Context, requestID, userID string) context.Context {
	attrs := requestAttrs(ctx)
	next := make([]slog.Attr, 0, len(attrs)+2)
	for _, a := range attrs {
		if (a.Key == "request_id" && requestID != "") || (a.Key == "user_id" && userID != "") {
			continue
		}
		next = append(next, a)
	}
	if requestID != "" {
		next = append(next, slog.String("request_id", requestID))
	}
	if userID != "" {
		next = append(next, slog.String("user_id", userID))
	}
	return context.WithValue(ctx, ctxKey{}, next)
}

func requestAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	return attrs
}

// missingAttrs drops the request attributes the record already sets itself.
func missingAttrs(record slog.Record, attrs []slog.Attr) []slog.Attr {
	if len(attrs) == 0 {
		return nil
	}
	present := make(map[string]bool, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		present[a.Key] = true
		return true
	})
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		if !present[a.Key] {
			out = append(out, a)
		}
	}
	return out
}

// MultiHandler fans records out to the stdout and database sinks. Request
// attributes stored with WithRequest are added to every record. A failing
// sink does not keep the record from the others.
type MultiHandler struct {
	sinks []slog.Handler
}

func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.sinks {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := missingAttrs(record, requestAttrs(ctx)); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}

	var errs []error
	for _, h := range m.sinks {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	sinks := make([]slog.Handler, len(m.sinks))
	for i, h := range m.sinks {
		sinks[i] = fn(h)
	}
	return &MultiHandler{sinks: sinks}
}
