package quota

import (
	"context"
	"time"

	"github.com/inditech/rfa/internal/log"
)

// StartJanitor purges counters older than retain every interval until ctx
// is done. Day keys never expire on their own in SQL or memory stores.
func StartJanitor(ctx context.Context, store Store, every, retain time.Duration, loc *time.Location) {
	if every <= 0 {
		return
	}
	if loc == nil {
		loc = time.UTC
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				cutoff := DayStart(now.Add(-retain), loc)
				n, err := store.Purge(ctx, cutoff)
				if err != nil {
					log.Warnf("quota janitor: %v", err)
					continue
				}
				if n > 0 {
					log.Debugf("quota janitor: purged %d counters before %s", n, FormatDay(cutoff, loc))
				}
			}
		}
	}()
}
