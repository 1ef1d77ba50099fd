// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run ticks the queue at Config.TickHz and delivers notifications until
// ctx ends or the queue is closed. It returns nil after Close and the
// context error on cancellation. The Notifications channel is closed on
// return. Run can be called once.
func (q *Queue) Run(ctx context.Context) error {
	q.mu.Lock()
	if q.ran {
		q.mu.Unlock()
		return ErrRunOnce
	}
	q.ran = true
	q.mu.Unlock()

	defer close(q.notifyC)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return q.tickLoop(ctx) })
	g.Go(func() error { return q.notifyLoop(ctx) })
	return g.Wait()
}

func (q *Queue) tickLoop(ctx context.Context) error {
	t := time.NewTicker(q.cfg.TickInterval())
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return nil
		case <-t.C:
		}

		if err := q.ProcessTick(ctx); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func (q *Queue) notifyLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return nil
		case <-q.wake:
		}

		for _, n := range q.DrainNotifications() {
			if q.cfg.Listener != nil {
				q.cfg.Listener(n)
				continue
			}
			select {
			case q.notifyC <- n:
			case <-ctx.Done():
				return ctx.Err()
			case <-q.done:
				return nil
			}
		}
	}
}
