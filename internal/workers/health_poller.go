// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/models"
)

const defaultHealthInterval = 30 * time.Second

// HealthPoller refreshes the cached backend status on an interval.
type HealthPoller struct {
	health   service.HealthService
	interval time.Duration
	notify   func(models.BackendStatus)

	logger *logger.Logger
}

// NewHealthPoller constructs a poller. A non-positive interval falls back to
// 30 seconds.
func NewHealthPoller(health service.HealthService, interval time.Duration, logger *logger.Logger) *HealthPoller {
	if interval <= 0 {
		interval = defaultHealthInterval
	}

	return &HealthPoller{
		health:   health,
		interval: interval,
		logger:   logger,
	}
}

// OnStatus registers fn to receive every probe result. It must be called
// before Run and fn must not block.
func (p *HealthPoller) OnStatus(fn func(models.BackendStatus)) *HealthPoller {
	p.notify = fn
	return p
}

// Run probes immediately and then once per interval until ctx is done.
func (p *HealthPoller) Run(ctx context.Context) {
	p.logger.Info().Str("func", "*HealthPoller.Run").Dur("interval", p.interval).Msg("health poller started")
	defer p.logger.Info().Str("func", "*HealthPoller.Run").Msg("health poller stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *HealthPoller) probe(ctx context.Context) {
	status := p.health.Check(ctx)
	if ctx.Err() != nil {
		return
	}
	if p.notify != nil {
		p.notify(status)
	}
}
