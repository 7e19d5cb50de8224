package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/pkg/jobs"
)

// EventSnapshot is the websocket event carrying the dashboard snapshot.
const EventSnapshot = "registrations.snapshot"

const (
	refreshJobKey      = "refresh"
	forceRefreshJobKey = "refresh:force"
)

type registrationLister interface {
	List(ctx context.Context) []models.Registration
}

type snapshotBroadcaster interface {
	Broadcast(event string, payload interface{}) (int, error)
}

type changeSubscriber interface {
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

type feedMetrics interface {
	RecordFeedBroadcast(clients int)
}

// FeedConfig tunes the dashboard feed.
type FeedConfig struct {
	PollInterval time.Duration
	RetryDelay   time.Duration
	MaxRetries   int
}

// DashboardSnapshot is the payload pushed to dashboard clients.
type DashboardSnapshot struct {
	Registrations []models.Registration    `json:"registrations"`
	Stats         models.RegistrationStats `json:"stats"`
	GeneratedAt   time.Time                `json:"generatedAt"`
}

type refreshRequest struct {
	Reason string
	Force  bool
}

// DashboardFeed keeps dashboard clients fresh: it re-reads the collection on a fixed interval and whenever
// a change signal arrives, and broadcasts a snapshot when the collection differs from the last one sent.
type DashboardFeed struct {
	lister      registrationLister
	broadcaster snapshotBroadcaster
	subscriber  changeSubscriber
	metrics     feedMetrics
	logger      *zap.Logger
	cfg         FeedConfig
	queue       *jobs.Queue

	mu          sync.Mutex
	fingerprint string
}

// NewDashboardFeed constructs the feed. subscriber may be nil, leaving only the periodic refresh.
func NewDashboardFeed(lister registrationLister, broadcaster snapshotBroadcaster, subscriber changeSubscriber, metrics feedMetrics, logger *zap.Logger, cfg FeedConfig) *DashboardFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	f := &DashboardFeed{
		lister:      lister,
		broadcaster: broadcaster,
		subscriber:  subscriber,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
	f.queue = jobs.NewQueue("dashboard-feed", f.handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 4,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return f
}

// Run drives the feed until ctx ends.
func (f *DashboardFeed) Run(ctx context.Context) error {
	f.queue.Start(ctx)
	defer f.queue.Stop()

	var changes <-chan struct{}
	if f.subscriber != nil {
		ch, err := f.subscriber.Subscribe(ctx)
		if err != nil {
			f.logger.Warn("change subscription unavailable, relying on periodic refresh", zap.Error(err))
		} else {
			changes = ch
		}
	}

	ticker := time.NewTicker(f.cfg.PollInterval)
	defer ticker.Stop()

	f.Trigger("startup")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.Trigger("interval")
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			f.Trigger("change")
		}
	}
}

// Trigger schedules a refresh. Requests arriving while one is pending are folded into it.
func (f *DashboardFeed) Trigger(reason string) {
	f.enqueue(refreshJobKey, refreshRequest{Reason: reason})
}

// ForceRefresh schedules a refresh that broadcasts even when nothing changed.
func (f *DashboardFeed) ForceRefresh() {
	f.enqueue(forceRefreshJobKey, refreshRequest{Reason: "client", Force: true})
}

func (f *DashboardFeed) enqueue(key string, req refreshRequest) {
	if _, err := f.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Key: key, Payload: req}); err != nil {
		f.logger.Debug("dashboard refresh skipped", zap.String("reason", req.Reason), zap.Error(err))
	}
}

func (f *DashboardFeed) handle(ctx context.Context, job jobs.Job) error {
	req, _ := job.Payload.(refreshRequest)
	_, err := f.Refresh(ctx, req.Force)
	return err
}

// Refresh reloads the collection and broadcasts it when it changed or force is set.
// It reports whether a snapshot was sent.
func (f *DashboardFeed) Refresh(ctx context.Context, force bool) (bool, error) {
	items := f.lister.List(ctx)
	fingerprint, err := fingerprintOf(items)
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !force && fingerprint == f.fingerprint {
		return false, nil
	}

	snapshot := DashboardSnapshot{
		Registrations: items,
		Stats:         SummarizeRegistrations(items),
		GeneratedAt:   time.Now().UTC(),
	}
	clients, err := f.broadcaster.Broadcast(EventSnapshot, snapshot)
	if err != nil {
		return false, fmt.Errorf("broadcast snapshot: %w", err)
	}
	f.fingerprint = fingerprint
	if f.metrics != nil {
		f.metrics.RecordFeedBroadcast(clients)
	}
	f.logger.Debug("dashboard snapshot broadcast", zap.Int("registrations", len(items)), zap.Int("clients", clients))
	return true, nil
}

func fingerprintOf(items []models.Registration) (string, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("fingerprint registrations: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
