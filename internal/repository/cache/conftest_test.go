package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/db"
	"github.com/kailas-cloud/gridprox/internal/domain"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memStore is a map-backed store for round-trip tests.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

type mockGeocoder struct {
	result []domain.AddressCandidate
	err    error
	calls  int
}

func (m *mockGeocoder) Search(_ context.Context, _ string) ([]domain.AddressCandidate, error) {
	m.calls++
	return m.result, m.err
}

type mockPropertySource struct {
	suburbs     []domain.SuburbRef
	lines       map[int]domain.SuburbLines
	err         error
	listCalls   int
	selectCalls int
}

func (m *mockPropertySource) ListSuburbs(_ context.Context) ([]domain.SuburbRef, error) {
	m.listCalls++
	return m.suburbs, m.err
}

func (m *mockPropertySource) SelectSuburb(_ context.Context, s domain.SuburbRef) (domain.SuburbLines, error) {
	m.selectCalls++
	if m.err != nil {
		return domain.SuburbLines{}, m.err
	}
	return m.lines[s.ID], nil
}

func newTestFetcher(t *testing.T, s store) *Fetcher {
	t.Helper()
	return New(s, "", time.Hour, nil, zap.NewNop())
}
