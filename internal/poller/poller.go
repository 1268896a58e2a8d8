// Package poller drives repeated status fetches for a submitted video
// generation job until the job reaches a terminal state or the caller stops
// watching.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"server/internal/heygen"
	"server/internal/infra"
)

// StatusFetcher fetches the current vendor status of one job.
type StatusFetcher interface {
	JobStatus(ctx context.Context, videoID string) (*heygen.VideoStatus, error)
}

// Update is one observed state of the watched job. Every intermediate state
// is surfaced; the final update has Done set.
type Update struct {
	Status *heygen.VideoStatus
	Err    error
	Done   bool
}

// Poller owns the retry policy: one immediate fetch, then a fixed interval
// between fetches while the job is non-terminal. No backoff, no jitter, no
// maximum fetch count. Fetch failures are not retried.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
	logger   *infra.Logger
}

// New constructs a poller. A non-positive interval falls back to 60 seconds.
func New(fetcher StatusFetcher, interval time.Duration, logger *infra.Logger) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Poller{fetcher: fetcher, interval: interval, logger: logger}
}

// Job is the handle for one polling sequence. Stop ends the sequence; it is
// checked before every scheduled fetch, so at most the in-flight fetch
// completes after Stop returns.
type Job struct {
	updates  chan Update
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Updates delivers observed states in order. The channel is closed after the
// final update or after Stop.
func (j *Job) Updates() <-chan Update {
	return j.updates
}

// Stop cancels the polling sequence. Safe to call more than once.
func (j *Job) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// Done is closed when the polling goroutine has exited.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Watch starts polling videoID. Fetches are strictly sequential: the next
// fetch is scheduled only after the previous one resolved and was inspected.
func (p *Poller) Watch(ctx context.Context, videoID string) *Job {
	job := &Job{
		updates: make(chan Update, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run(ctx, videoID, job)
	return job
}

func (p *Poller) run(ctx context.Context, videoID string, job *Job) {
	defer close(job.done)
	defer close(job.updates)

	for {
		status, err := p.fetcher.JobStatus(ctx, videoID)
		if err != nil {
			// Transport or decode failure: report and stop, no retry.
			p.logf(videoID, "status fetch failed: %v", err)
			job.deliver(ctx, Update{Err: err, Done: true})
			return
		}
		if status.Error != nil {
			// The vendor attached an error detail; the job is failed even
			// when the nominal status is still non-terminal.
			err := fmt.Errorf("video job failed: %s", status.Error.Text())
			p.logf(videoID, "job reported error: %s", status.Error.Text())
			job.deliver(ctx, Update{Status: status, Err: err, Done: true})
			return
		}
		if heygen.TerminalStatus(status.Status) {
			var failErr error
			if status.Status == heygen.StatusFailed {
				failErr = fmt.Errorf("video job failed")
			}
			job.deliver(ctx, Update{Status: status, Err: failErr, Done: true})
			return
		}
		if !job.deliver(ctx, Update{Status: status}) {
			return
		}

		select {
		case <-time.After(p.interval):
		case <-job.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// deliver hands the update to the consumer unless the sequence was stopped.
func (j *Job) deliver(ctx context.Context, u Update) bool {
	select {
	case j.updates <- u:
		return true
	case <-j.stop:
		return false
	case <-ctx.Done():
		return false
	}
}

func (p *Poller) logf(videoID, format string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Debug().Str("video_id", videoID).Msgf(format, args...)
}
