package service

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// utcNow reads c at the precision every store driver round-trips. A nil
// clock is the wall clock.
func utcNow(c clockwork.Clock) time.Time {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return c.Now().UTC().Truncate(time.Microsecond)
}
