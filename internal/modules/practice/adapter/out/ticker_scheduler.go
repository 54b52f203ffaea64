package out

import (
	"sync"
	"time"

	practiceout "stillness/internal/modules/practice/port/out"
)

// TickerScheduler runs each schedule on its own goroutine backed by a
// time.Ticker. Cancel returns without waiting for a callback in flight.
type TickerScheduler struct{}

func NewTickerScheduler() TickerScheduler {
	return TickerScheduler{}
}

func (TickerScheduler) Every(interval time.Duration, fn func()) practiceout.Cancel {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
