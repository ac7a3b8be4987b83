package rbac

import (
	"context"
	"log/slog"
	"time"

	"github.com/painelhub/accesskit/pkg/logger"
)

// storeOptions collects configuration shared by the store implementations.
type storeOptions struct {
	logger      *slog.Logger
	afterChange func(context.Context, ChangeEvent)
	now         func() time.Time
}

// StoreOption configures a store during construction.
type StoreOption func(*storeOptions)

// WithLogger configures the logger used for hook failures and store
// diagnostics. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithAfterChange configures a hook invoked asynchronously after every
// successful mutation. This is the extension point for audit trails; the
// core keeps no who-changed-what history of its own.
func WithAfterChange(fn func(context.Context, ChangeEvent)) StoreOption {
	return func(o *storeOptions) {
		o.afterChange = fn
	}
}

func newStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// notifyChange delivers a change event to the hook on a separate goroutine,
// recovering panics so a misbehaving hook cannot take down the caller.
func (o *storeOptions) notifyChange(event ChangeEvent) {
	if o.afterChange == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				o.logger.Error("afterChange hook panicked",
					slog.String("entity", string(event.Entity)),
					slog.String("op", string(event.Op)),
					slog.String("id", event.ID.String()),
					slog.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		o.afterChange(ctx, event)
	}()
}
