// Package progress tracks cumulative bytes processed during an
// archive operation and periodically logs a structured progress
// event.
package progress

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"hamarc/internal/humanfmt"
	"hamarc/internal/logging"
)

var (
	totalBytesProcessed atomic.Uint64
	totalSize           uint64
	done                chan struct{}
	running             bool
	mu                  sync.Mutex
	quiet               bool
)

// Init starts the background ticker that logs progress against an
// expected total of size bytes. A second Init call before Stop is a
// no-op: only one tracking run is active at a time.
func Init(size uint64) {
	mu.Lock()
	defer mu.Unlock()

	if running {
		return
	}

	totalBytesProcessed.Store(0)
	totalSize = size
	if totalSize == 0 {
		totalSize = 1
	}

	done = make(chan struct{})
	running = true
	go tick()
}

// SetQuiet suppresses periodic progress events, logging only the
// final summary at debug level. Intended for test runs, where
// ticker-driven log lines add noise without adding signal.
func SetQuiet(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = enabled
}

// Stop ends the tracking run and emits a final summary event.
func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if running {
		close(done)
		running = false
	}
}

// AddBytes adds n to the cumulative byte counter.
func AddBytes(n uint64) {
	if n > 0 {
		totalBytesProcessed.Add(n)
	}
}

func tick() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var prevBytes uint64
	var prevPercentage float64
	startTime := time.Now()
	lastLogTime := time.Now()

	for {
		select {
		case <-ticker.C:
			currentBytes := totalBytesProcessed.Load()
			rate := (currentBytes - prevBytes) * 4
			prevBytes = currentBytes

			currentPercentage := float64(currentBytes) / float64(totalSize) * 100

			timeSinceLastLog := time.Since(lastLogTime)
			percentageDiff := currentPercentage - prevPercentage

			if !quiet && (timeSinceLastLog >= time.Second || percentageDiff >= 10 ||
				(currentPercentage >= 100 && prevPercentage < 100)) {

				lastLogTime = time.Now()
				logEvent(zerolog.InfoLevel, "progress_update", currentBytes, rate, currentPercentage)
			}

			prevPercentage = currentPercentage
		case <-done:
			elapsed := time.Since(startTime).Seconds()
			if elapsed < 0.001 {
				elapsed = 0.001
			}
			finalBytes := totalBytesProcessed.Load()
			avgRate := uint64(float64(finalBytes) / elapsed)

			level := zerolog.InfoLevel
			if quiet {
				level = zerolog.DebugLevel
			}
			logging.L().WithLevel(level).
				Str("event", "progress_complete").
				Uint64("bytes", finalBytes).
				Float64("elapsed_seconds", elapsed).
				Str("avg_rate", humanfmt.BytesUint64(avgRate)+"/s").
				Msg(humanfmt.BytesUint64(finalBytes) + " processed in " + humanfmt.Duration(time.Duration(elapsed*float64(time.Second))))
			return
		}
	}
}

func logEvent(level zerolog.Level, event string, bytes, rate uint64, percentage float64) {
	logging.L().WithLevel(level).
		Str("event", event).
		Uint64("bytes", bytes).
		Uint64("total", totalSize).
		Float64("percent", percentage).
		Str("rate", humanfmt.BytesUint64(rate)+"/s").
		Msg(humanfmt.BytesUint64(bytes) + " of " + humanfmt.BytesUint64(totalSize))
}

// Writer wraps an io.Writer, adding every successful write's byte
// count to the tracker.
type Writer struct {
	W io.Writer
}

func (pw *Writer) Write(p []byte) (n int, err error) {
	n, err = pw.W.Write(p)
	if err == nil && n > 0 {
		AddBytes(uint64(n))
	}
	return
}
