package session

import (
	"context"
	"log"
	"time"

	"github.com/adibhanna/pomodoro/internal/core/engine"
)

// Run drives the controller from one goroutine until ctx is cancelled or
// commands is closed. A ticker samples the clock every interval; completed
// countdowns schedule their transition with a timer that posts back into the
// loop, so all controller calls stay on this goroutine.
func (c *Controller) Run(ctx context.Context, commands <-chan engine.Command, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	transitions := make(chan Transition, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			if err := c.Dispatch(cmd); err != nil {
				log.Printf("dispatch: %v", err)
			}

		case <-ticker.C:
			t := c.Tick(c.clock.Now())
			if t == nil {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			next := *t
			timer = time.AfterFunc(next.Delay, func() {
				select {
				case transitions <- next:
				case <-ctx.Done():
				}
			})

		case t := <-transitions:
			c.ApplyTransition(t)
		}
	}
}
