package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/mbd888/numerics/pkg/locale"
)

// LocaleCheck verifies that separator data resolves for the given tag.
// A tag that silently falls back to the canonical locale is unhealthy.
func LocaleCheck(tag string) Checker {
	return func(_ context.Context) Status {
		st := Status{Name: "locale"}
		if _, err := locale.Parse(tag); err != nil {
			st.Detail = err.Error()
			return st
		}
		data := locale.Lookup(tag)
		if data.DecimalSeparator == "" {
			st.Detail = "no decimal separator for " + tag
			return st
		}
		st.Healthy = true
		st.Detail = tag + " decimal=" + data.DecimalSeparator
		return st
	}
}

// DatabaseCheck pings db with a short timeout.
func DatabaseCheck(db *sql.DB) Checker {
	return func(ctx context.Context) Status {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return Status{Name: "database", Detail: err.Error()}
		}
		return Status{Name: "database", Healthy: true}
	}
}
