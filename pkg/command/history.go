package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/checkmark/internal/logging"
	"github.com/aretw0/checkmark/pkg/domain"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 100

// History keeps bounded undo and redo stacks of executed commands.
// It is not safe for concurrent use.
type History struct {
	limit  int
	undo   []Command
	redo   []Command
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithLimit bounds the number of undoable commands. Non-positive values keep the default.
func WithLimit(limit int) HistoryOption {
	return func(h *History) {
		if limit > 0 {
			h.limit = limit
		}
	}
}

// WithLifecycleHooks reports executed, undone and redone commands through OnCommand.
func WithLifecycleHooks(hooks domain.LifecycleHooks) HistoryOption {
	return func(h *History) {
		h.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) HistoryOption {
	return func(h *History) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHistory creates an empty history.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{
		limit:  DefaultHistoryLimit,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute runs the command and records it. A new command clears the redo stack.
func (h *History) Execute(ctx context.Context, cmd Command) error {
	if err := cmd.Do(ctx); err != nil {
		h.report(ctx, cmd, false, err)
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	h.undo = append(h.undo, cmd)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
	h.report(ctx, cmd, false, nil)
	return nil
}

// Undo reverts the most recent command.
func (h *History) Undo(ctx context.Context) error {
	if len(h.undo) == 0 {
		return domain.ErrNothingToUndo
	}
	cmd := h.undo[len(h.undo)-1]
	if err := cmd.Undo(ctx); err != nil {
		h.report(ctx, cmd, true, err)
		return fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cmd)
	h.report(ctx, cmd, true, nil)
	return nil
}

// Redo re-applies the most recently undone command.
func (h *History) Redo(ctx context.Context) error {
	if len(h.redo) == 0 {
		return domain.ErrNothingToUndo
	}
	cmd := h.redo[len(h.redo)-1]
	if err := cmd.Do(ctx); err != nil {
		h.report(ctx, cmd, false, err)
		return fmt.Errorf("redo %s: %w", cmd.Name(), err)
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cmd)
	h.report(ctx, cmd, false, nil)
	return nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops both stacks, as after a reset or a load.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// Names lists the undoable commands, oldest first.
func (h *History) Names() []string {
	names := make([]string, len(h.undo))
	for i, cmd := range h.undo {
		names[i] = cmd.Name()
	}
	return names
}

func (h *History) report(ctx context.Context, cmd Command, undo bool, err error) {
	if err != nil {
		h.logger.WarnContext(ctx, "command failed", "command", cmd.Name(), "undo", undo, "err", err)
	} else {
		h.logger.DebugContext(ctx, "command applied", "command", cmd.Name(), "undo", undo)
	}
	if h.hooks.OnCommand == nil {
		return
	}
	h.hooks.OnCommand(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCommand},
		Name:      cmd.Name(),
		Undo:      undo,
		IsError:   err != nil,
	})
}
