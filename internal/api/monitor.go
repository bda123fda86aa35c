// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// HEALTH MONITOR
// =============================================================================

// HealthStatus is the monitor's view of the backend.
type HealthStatus int

const (
	HealthUnknown HealthStatus = iota
	HealthOK
	HealthDown
)

// String returns a short label for the status bar.
func (s HealthStatus) String() string {
	switch s {
	case HealthOK:
		return "connected"
	case HealthDown:
		return "backend unavailable"
	default:
		return "checking..."
	}
}

// Monitor tracks backend health for the status bar. Probe is safe to call
// on every UI tick; a rate limiter collapses tick pressure down to at most
// one real health request per interval.
type Monitor struct {
	client  *Client
	limiter *rate.Limiter

	mu     sync.Mutex
	status HealthStatus
	last   time.Time
}

// NewMonitor creates a health monitor probing at most once per interval.
func NewMonitor(client *Client, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Monitor{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Probe checks backend health if the limiter allows, otherwise returns the
// cached status. Any non-2xx, unhealthy payload, or transport error counts
// as down.
func (m *Monitor) Probe(ctx context.Context) HealthStatus {
	if !m.limiter.Allow() {
		return m.Status()
	}

	health, err := m.client.Health(ctx)
	status := HealthOK
	if err != nil || !health.Healthy() {
		status = HealthDown
	}

	m.mu.Lock()
	m.status = status
	m.last = time.Now()
	m.mu.Unlock()
	return status
}

// Status returns the most recent probe result without probing.
func (m *Monitor) Status() HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// LastChecked returns when the backend was last actually probed.
func (m *Monitor) LastChecked() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
