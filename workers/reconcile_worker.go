package workers

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Rajat-Bansal3/Skill-Score/services"

	"github.com/go-co-op/gocron/v2"
)

// ReconcileWorker clears participants left INGAME by an abrupt
// disconnect. A socket drop does not roll back committed join state, so
// a participant can stay INGAME with no live connection; the sweep finds
// those and force-leaves them.
type ReconcileWorker struct {
	Store    services.RoomStore
	Registry *services.Registry
	Interval time.Duration

	scheduler gocron.Scheduler
}

// NewReconcileWorker reads RECONCILE_INTERVAL (seconds, default 60).
func NewReconcileWorker(store services.RoomStore, registry *services.Registry) *ReconcileWorker {
	interval := 60 * time.Second
	if raw := os.Getenv("RECONCILE_INTERVAL"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			interval = time.Duration(secs) * time.Second
		} else {
			log.Printf("⚠️  [Reconcile] invalid RECONCILE_INTERVAL %q, using default", raw)
		}
	}
	return &ReconcileWorker{Store: store, Registry: registry, Interval: interval}
}

// Start schedules the periodic sweep. Stops when ctx is canceled.
func (w *ReconcileWorker) Start(ctx context.Context) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("❌ [Reconcile] failed to create scheduler: %v", err)
		return
	}
	w.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(w.Interval),
		gocron.NewTask(func() {
			w.Sweep(ctx)
		}),
	)
	if err != nil {
		log.Printf("❌ [Reconcile] failed to schedule sweep: %v", err)
		return
	}

	sched.Start()
	log.Printf("✅ Reconcile sweep running (every %s)", w.Interval)

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
}

// Sweep runs one reconciliation pass: every INGAME participant without a
// live connection is released. Per-participant failures are logged and
// do not stop the pass.
func (w *ReconcileWorker) Sweep(ctx context.Context) {
	stale, err := w.Store.StaleInGameParticipants(ctx, w.Registry.ActiveUserIDs())
	if err != nil {
		log.Printf("[Reconcile] DB error: %v", err)
		return
	}

	for _, p := range stale {
		if err := w.Store.ReleaseParticipant(ctx, p.ID); err != nil {
			log.Printf("[Reconcile] Failed to release participant %s: %v", p.ID, err)
			continue
		}
		log.Printf("✅ Released stale INGAME participant: %s", p.ID)
	}
}
