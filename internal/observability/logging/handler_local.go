//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs is a no-op outside the gcloud build. Trace ids still ride
// on the span context; they are just not mirrored into Cloud Logging
// correlation fields.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
