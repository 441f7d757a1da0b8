package messagelog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arcturial/clickatell/pkg/dispatcher"
)

// Listener returns a response listener that saves every completed call.
// Store failures are logged and never fail the call.
func Listener(s Store) dispatcher.ResponseListener {
	return func(ctx context.Context, ev dispatcher.ResponseEvent) {
		if err := s.Save(ctx, FromEvent(ev)); err != nil {
			slog.Warn(fmt.Sprintf("%s - failed to log %s: %v", logPrefix, ev.Call.Operation, err))
		}
	}
}
