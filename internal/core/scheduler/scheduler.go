// Package scheduler decides which mode follows a completed countdown and
// keeps the count of completed focus sessions.
package scheduler

import (
	"time"

	"github.com/adibhanna/pomodoro/internal/models"
)

// DefaultDelay is the grace period between a completion and the switch to
// the next mode.
const DefaultDelay = time.Second

// Decision is the outcome of a completed countdown.
type Decision struct {
	Next         models.Mode
	AutoStart    bool
	Count        int
	LongBreakDue bool
}

// Decide applies the chaining rule. A completed focus session increments
// count first; the long break is due when the new count is a multiple of
// interval. A completed break always leads back to focus.
func Decide(current models.Mode, count, interval int, autoStartFocus, autoStartBreaks bool) Decision {
	if interval < 1 {
		interval = 1
	}
	d := Decision{Next: models.ModeFocus, Count: count}
	if current == models.ModeFocus {
		d.Count++
		d.LongBreakDue = d.Count%interval == 0
		if d.LongBreakDue {
			d.Next = models.ModeLongBreak
		} else {
			d.Next = models.ModeShortBreak
		}
	}
	d.AutoStart = (d.Next == models.ModeFocus && autoStartFocus) ||
		(d.Next != models.ModeFocus && autoStartBreaks)
	return d
}

// DotsLit is the number of lit session markers. In focus mode it is the
// position inside the current long-break cycle; in a break it is the raw
// count, which can exceed interval.
func DotsLit(mode models.Mode, count, interval int) int {
	if mode != models.ModeFocus {
		return count
	}
	if interval < 1 {
		return 0
	}
	return count % interval
}

// Scheduler owns the session counter.
type Scheduler struct {
	count int
	Delay time.Duration
}

func New() *Scheduler {
	return &Scheduler{Delay: DefaultDelay}
}

// Count returns the number of completed focus sessions.
func (s *Scheduler) Count() int {
	return s.count
}

// OnComplete records the completion of current and returns what comes next.
func (s *Scheduler) OnComplete(current models.Mode, cfg models.SessionConfig) Decision {
	d := Decide(current, s.count, cfg.LongBreakInterval, cfg.AutoStartFocus, cfg.AutoStartBreaks)
	s.count = d.Count
	return d
}

// Dots returns DotsLit for the current counter.
func (s *Scheduler) Dots(mode models.Mode, interval int) int {
	return DotsLit(mode, s.count, interval)
}
