package store

import (
	"context"
	"sync"
	"time"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
)

// Memory implements all three stores in process memory. Used by tests and
// single-node deployments; a restart loses everything, which is why the
// Postgres and Redis backends exist.
type Memory struct {
	mu        sync.RWMutex
	sessions  map[string]domain.SessionState
	scans     map[string]memScan
	overrides map[string]domain.OverrideRecord

	// retention bounds the scan map; oldest entries are evicted past it.
	retention time.Duration
	now       func() time.Time
}

type memScan struct {
	scan     domain.ScanResult
	storedAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sessions:  map[string]domain.SessionState{},
		scans:     map[string]memScan{},
		overrides: map[string]domain.OverrideRecord{},
		retention: 24 * time.Hour,
		now:       time.Now,
	}
}

func (m *Memory) Load(ctx context.Context, sessionID string) (domain.SessionState, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return domain.NewSession(sessionID), nil
	}
	return s, nil
}

func (m *Memory) Save(ctx context.Context, state domain.SessionState) error {
	m.mu.Lock()
	m.sessions[state.SessionID] = state
	m.mu.Unlock()
	return nil
}

func (m *Memory) Reset(ctx context.Context, state domain.SessionState) error {
	return m.Save(ctx, state)
}

func (m *Memory) PutScan(ctx context.Context, scan domain.ScanResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, s := range m.scans {
		if now.Sub(s.storedAt) > m.retention {
			delete(m.scans, id)
		}
	}
	m.scans[scan.ScanID] = memScan{scan: scan, storedAt: now}
	return nil
}

func (m *Memory) GetScan(ctx context.Context, scanID string) (domain.ScanResult, error) {
	m.mu.RLock()
	s, ok := m.scans[scanID]
	m.mu.RUnlock()
	if !ok || m.now().Sub(s.storedAt) > m.retention {
		return domain.ScanResult{}, ErrScanNotFound
	}
	return s.scan, nil
}

func (m *Memory) PutOverride(ctx context.Context, rec domain.OverrideRecord) error {
	m.mu.Lock()
	m.overrides[rec.AuditID] = rec
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetOverride(ctx context.Context, auditID string) (domain.OverrideRecord, error) {
	m.mu.RLock()
	rec, ok := m.overrides[auditID]
	m.mu.RUnlock()
	if !ok {
		return domain.OverrideRecord{}, ErrOverrideNotFound
	}
	return rec, nil
}
