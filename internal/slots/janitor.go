package slots

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner removes slots that start before a cutoff from every job.
type Pruner interface {
	PruneSlotsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Janitor wraps robfig/cron and drops past slots so the agent never offers them.
type Janitor struct {
	cron   *cron.Cron
	pruner Pruner
	spec   string
	now    func() time.Time
	logger *zap.Logger
	// initial tracks the prune Start runs outside cron.
	initial sync.WaitGroup
}

// NewJanitor creates a Janitor firing on the given cron spec, e.g. "@every 1h".
func NewJanitor(pruner Pruner, spec string, logger *zap.Logger) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{
		cron:   cron.New(),
		pruner: pruner,
		spec:   spec,
		now:    time.Now,
		logger: logger.Named("janitor"),
	}
}

// Start registers the job and starts the scheduler. One prune runs right away.
func (j *Janitor) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	j.cron.Start()
	j.logger.Info("cron started", zap.String("spec", j.spec))

	j.initial.Add(1)
	go func() {
		defer j.initial.Done()
		j.RunOnce(ctx)
	}()
	return nil
}

// Stop halts the scheduler and waits for running prunes to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.initial.Wait()
	j.logger.Info("cron stopped")
}

// RunOnce prunes every slot that already started.
func (j *Janitor) RunOnce(ctx context.Context) int {
	n, err := j.pruner.PruneSlotsBefore(ctx, j.now())
	if err != nil {
		j.logger.Error("pruning past slots", zap.Error(err))
		return 0
	}
	if n > 0 {
		j.logger.Info("pruned past slots", zap.Int("count", n))
	}
	return n
}
