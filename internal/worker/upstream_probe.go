package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/robfig/cron/v3"
)

const probeTimeout = 15 * time.Second

type ProbeStatus struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// UpstreamProbe periodically checks that the rate API answers. The fetched
// table is discarded; conversions always fetch their own.
type UpstreamProbe struct {
	fetcher RateFetcher
	cron    *cron.Cron
	now     func() time.Time

	mu     sync.RWMutex
	status ProbeStatus
}

func NewUpstreamProbe(fetcher RateFetcher, schedule string) (*UpstreamProbe, error) {
	p := &UpstreamProbe{
		fetcher: fetcher,
		cron:    cron.New(),
		now:     time.Now,
	}

	if _, err := p.cron.AddFunc(schedule, p.probeWrapper); err != nil {
		return nil, fmt.Errorf("invalid probe schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Start probes once in the background and then on schedule until ctx is done.
// It does not wait for the first probe.
func (p *UpstreamProbe) Start(ctx context.Context) {
	go p.probe(ctx)
	p.cron.Start()

	go func() {
		<-ctx.Done()
		<-p.cron.Stop().Done()
		logger.Info("upstream probe stopped")
	}()
}

func (p *UpstreamProbe) Status() ProbeStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *UpstreamProbe) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := ProbeStatus{Healthy: true, CheckedAt: p.now()}
	if _, err := p.fetcher.FetchRates(ctx, model.USD); err != nil {
		status.Healthy = false
		status.LastError = err.Error()
		logger.Errorf("upstream probe failed: %v", err)
	}

	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
}

func (p *UpstreamProbe) probeWrapper() {
	p.probe(context.Background())
}
