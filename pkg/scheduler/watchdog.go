package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/symbol/symbol-faucet/pkg/app"
	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/logger"
)

// Supervisor is the part of app.Manager the watchdog drives.
type Supervisor interface {
	CurrentHealth(ctx context.Context) (nodeURL string, healthy bool)
	Failover(ctx context.Context) (*app.App, error)
}

// Watchdog probes the bound node on a cron schedule and fails over after
// FailureThreshold consecutive unhealthy probes.
type Watchdog struct {
	supervisor Supervisor
	schedule   string
	threshold  int
	cron       *cron.Cron

	running bool
	entryID cron.EntryID
	mutex   sync.RWMutex

	failures   int
	stateMutex sync.Mutex

	cancel context.CancelFunc
}

// WatchdogEvent summarises one check cycle.
type WatchdogEvent struct {
	NodeURL    string
	Healthy    bool
	Failures   int
	FailedOver bool
	NewNodeURL string
	Error      error
	Duration   time.Duration
}

func NewWatchdog(cfg *config.HealthCheck, supervisor Supervisor) (*Watchdog, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("health check is not enabled in configuration")
	}
	if supervisor == nil {
		return nil, fmt.Errorf("watchdog requires a supervisor")
	}
	threshold := cfg.FailureThreshold
	if threshold < 1 {
		threshold = 1
	}

	cronLogger := cron.PrintfLogger(logger.Named("watchdog"))
	return &Watchdog{
		supervisor: supervisor,
		schedule:   cfg.Schedule,
		threshold:  threshold,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}, nil
}

func (w *Watchdog) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.running {
		return fmt.Errorf("watchdog is already running")
	}

	logger.Infof("Starting node watchdog with schedule: %s (failure threshold %d)", w.schedule, w.threshold)
	ctx, cancel := context.WithCancel(context.Background())
	entryID, err := w.cron.AddFunc(w.schedule, func() {
		w.Check(ctx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	w.cancel, w.entryID = cancel, entryID
	w.cron.Start()
	w.running = true
	return nil
}

// Stop waits for a running check to finish. A stopped watchdog can be started again.
func (w *Watchdog) Stop() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return nil
	}

	logger.Infof("Stopping node watchdog...")
	w.cancel()
	<-w.cron.Stop().Done()
	w.cron.Remove(w.entryID)
	w.running = false
	logger.Infof("Node watchdog stopped")
	return nil
}

func (w *Watchdog) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetNextRun returns the next scheduled check, zero when stopped.
func (w *Watchdog) GetNextRun() time.Time {
	if !w.IsRunning() {
		return time.Time{}
	}
	entries := w.cron.Entries()
	if len(entries) > 0 {
		return entries[0].Next
	}
	return time.Time{}
}

// Failures returns the current count of consecutive unhealthy probes.
func (w *Watchdog) Failures() int {
	w.stateMutex.Lock()
	defer w.stateMutex.Unlock()
	return w.failures
}

// Check runs one probe cycle.
func (w *Watchdog) Check(ctx context.Context) WatchdogEvent {
	startTime := time.Now()
	nodeURL, healthy := w.supervisor.CurrentHealth(ctx)
	event := WatchdogEvent{NodeURL: nodeURL, Healthy: healthy}

	w.stateMutex.Lock()
	defer w.stateMutex.Unlock()

	if healthy {
		if w.failures > 0 {
			logger.Infof("node %s recovered after %d failed probes", nodeURL, w.failures)
		}
		w.failures = 0
		event.Duration = time.Since(startTime)
		return event
	}

	w.failures++
	event.Failures = w.failures
	logger.Warnf("node %s failed health probe (%d/%d)", nodeURL, w.failures, w.threshold)
	if w.failures < w.threshold {
		event.Duration = time.Since(startTime)
		return event
	}

	next, err := w.supervisor.Failover(ctx)
	event.Duration = time.Since(startTime)
	if err != nil {
		logger.Errorf("failover from %s failed: %v", nodeURL, err)
		event.Error = err
		return event
	}

	w.failures = 0
	event.FailedOver = true
	if next != nil {
		event.NewNodeURL = next.NodeURL()
	}
	logger.Infof("failed over from %s to %s in %v", nodeURL, event.NewNodeURL, event.Duration)
	return event
}
