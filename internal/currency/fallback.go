package currency

import (
	"context"
	"log/slog"

	applog "costs/internal/log"
)

// FallbackSource never fails because of the upstream: when the wrapped
// source errors it returns FallbackTable, whose Fallback flag lets callers
// tell the substitution apart from live rates.
type FallbackSource struct {
	src Source
}

var _ Source = (*FallbackSource)(nil)

func WithFallback(src Source) *FallbackSource {
	return &FallbackSource{src: src}
}

func (f *FallbackSource) Fetch(ctx context.Context) (RateTable, error) {
	table, err := f.src.Fetch(ctx)
	if err == nil {
		return table, nil
	}
	// A cancelled caller gets its own error back, not stale rates.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return RateTable{}, ctxErr
	}
	slog.WarnContext(ctx, "Exchange rate fetch failed, using fallback rates",
		applog.FieldError, err,
		applog.FieldComponent, applog.ComponentRates)
	return FallbackTable(), nil
}
