package osuapi

import (
	"context"
	"sync"
	"time"
)

const cooldown = time.Minute

// throttle bounds the number of requests in flight and the number started per minute.
type throttle struct {
	rateLimit int
	ticker    *time.Ticker

	attempts     []time.Time
	attemptsLock sync.Mutex

	concurrentReqs chan struct{}
}

func newThrottle(rateLimit, maxConcurrentRequests int) *throttle {
	t := &throttle{
		rateLimit:      rateLimit,
		concurrentReqs: make(chan struct{}, max(1, maxConcurrentRequests)),
	}

	if rateLimit > 0 {
		t.ticker = time.NewTicker(cooldown / time.Duration(rateLimit))
	}

	for range cap(t.concurrentReqs) {
		t.concurrentReqs <- struct{}{}
	}

	return t
}

// acquire blocks until a request may start. The returned func releases the slot.
func (t *throttle) acquire(ctx context.Context) (func(), error) {
	select {
	case <-t.concurrentReqs:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	done := func() {
		t.concurrentReqs <- struct{}{}
	}

	if t.ticker == nil {
		return done, nil
	}

	for {
		select {
		case <-t.ticker.C:
			if t.allow() {
				return done, nil
			}
		case <-ctx.Done():
			done()
			return nil, ctx.Err()
		}
	}
}

func (t *throttle) allow() bool {
	t.attemptsLock.Lock()
	defer t.attemptsLock.Unlock()

	att := t.attempts
	if len(att) < t.rateLimit || time.Since(att[0]) > cooldown {
		att = append(att, time.Now())
		if len(att) > t.rateLimit {
			att = att[1:]
		}
		t.attempts = att
		return true
	}

	return false
}

func (t *throttle) stop() {
	if t.ticker != nil {
		t.ticker.Stop()
	}
}
