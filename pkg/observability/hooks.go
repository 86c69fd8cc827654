package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/checkmark/pkg/domain"
)

// Merge combines hook sets. Each callback runs the non-nil callbacks of every set in order.
func Merge(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnNodeChange = chain(out.OnNodeChange, h.OnNodeChange)
		out.OnSectionChange = chain(out.OnSectionChange, h.OnSectionChange)
		out.OnReconcile = chain(out.OnReconcile, h.OnReconcile)
		out.OnCommand = chain(out.OnCommand, h.OnCommand)
		if h.OnUnsaved != nil {
			prev, next := out.OnUnsaved, h.OnUnsaved
			out.OnUnsaved = func(ctx context.Context) {
				if prev != nil {
					prev(ctx)
				}
				next(ctx)
			}
		}
	}
	return out
}

func chain[E any](prev, next func(context.Context, E)) func(context.Context, E) {
	switch {
	case next == nil:
		return prev
	case prev == nil:
		return next
	}
	return func(ctx context.Context, ev E) {
		prev(ctx, ev)
		next(ctx, ev)
	}
}

// LoggingHooks logs every lifecycle event at Debug, and commands at Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeChange: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_changed", "node_id", e.NodeID, "from", e.From, "to", e.To)
		},
		OnSectionChange: func(ctx context.Context, e *domain.SectionEvent) {
			logger.DebugContext(ctx, "section_changed",
				"ref", e.Ref.String(),
				"available", e.Available,
				"accessible", e.Accessible,
				"accessibility", e.Accessibility,
			)
		},
		OnReconcile: func(ctx context.Context, e *domain.SectionEvent) {
			logger.DebugContext(ctx, "section_reconciled", "ref", e.Ref.String(), "available", e.Available)
		},
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "command", "name", e.Name, "undo", e.Undo, "is_error", e.IsError)
		},
		OnUnsaved: func(ctx context.Context) {
			logger.DebugContext(ctx, "unsaved_changes")
		},
	}
}
