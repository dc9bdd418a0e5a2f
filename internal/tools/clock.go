package tools

import (
	"context"
	"time"

	"github.com/ncruces/go-strftime"
)

// Clock reports the current system time so the model can resolve relative
// time expressions ("this year", "last week") before building a
// time-sensitive search query.
type Clock struct {
	now func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Name() string { return "current_time" }

func (c *Clock) Description() string {
	return "Get the current date and time. Use this when you need to know what " +
		"'today' or 'this year' actually is, or to build a search query anchored " +
		"to the current date."
}

func (c *Clock) Schema() map[string]any {
	return obj(nil)
}

func (c *Clock) Invoke(ctx context.Context, args map[string]any) any {
	// YYYY-MM-DD HH:MM:SS (Weekday)
	return strftime.Format("%Y-%m-%d %H:%M:%S (%A)", c.now())
}
