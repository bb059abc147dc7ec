package gridprox

import (
	"context"
	"time"

	"github.com/kailas-cloud/gridprox/internal/domain"
	healthuc "github.com/kailas-cloud/gridprox/internal/usecase/health"
	proximityuc "github.com/kailas-cloud/gridprox/internal/usecase/proximity"
)

// --- proximityUseCase mock ---

type mockProximityUC struct {
	queryFn func(ctx context.Context, address string, opts proximityuc.Options) (*domain.Report, error)
}

func (m *mockProximityUC) Query(ctx context.Context, address string, opts proximityuc.Options) (*domain.Report, error) {
	return m.queryFn(ctx, address, opts)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- store mock ---

type mockStore struct {
	pingErr error
	closed  bool
}

func (m *mockStore) Ping(context.Context) error                  { return m.pingErr }
func (m *mockStore) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (m *mockStore) SetWithTTL(context.Context, string, []byte, time.Duration) error {
	return nil
}
func (m *mockStore) Del(context.Context, string) error { return nil }
func (m *mockStore) Close()                            { m.closed = true }
