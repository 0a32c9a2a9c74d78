package utils

import (
	"context"
	"fmt"
	"learnhub/logger"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named periodic task.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// InitializeSchedulers registers every job on a new cron scheduler and starts
// it. Jobs with an empty spec are skipped. Overlapping runs of the same job
// are skipped.
func InitializeSchedulers(jobs []Job, log *logger.Logger) (*cron.Cron, error) {
	schedLog := log.With("component", "Scheduler")
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	for _, job := range jobs {
		if job.Spec == "" {
			schedLog.Info("Job disabled", "job", job.Name)
			continue
		}
		job := job
		if _, err := c.AddFunc(job.Spec, func() { runJob(job, schedLog) }); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
		}
		schedLog.Info("Job scheduled", "job", job.Name, "spec", job.Spec)
	}

	c.Start()
	return c, nil
}

func runJob(job Job, log *logger.Logger) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	started := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Error("Job failed", "job", job.Name, "error", err, "elapsed", time.Since(started).String())
		return
	}
	log.Info("Job finished", "job", job.Name, "elapsed", time.Since(started).String())
}
