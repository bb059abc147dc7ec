package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kailas-cloud/gridprox/internal/db"
)

func newTestStore(t *testing.T, version string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	s, err := NewStore(path, version)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, path
}

func TestNewStore_CreatesFile(t *testing.T) {
	_, path := newTestStore(t, "v1")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected cache file: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("expected empty object, got %q", data)
	}
}

func TestNewStore_EmptyPath(t *testing.T) {
	if _, err := NewStore("", "v1"); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t, "v1")
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "gridprox:suburbs:v1", []byte(`[1,2]`), time.Hour); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	got, err := s.Get(ctx, "gridprox:suburbs:v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[1,2]` {
		t.Errorf("Get = %q", got)
	}
}

func TestGet_Missing(t *testing.T) {
	s, _ := newTestStore(t, "v1")
	_, err := s.Get(context.Background(), "absent")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Expired(t *testing.T) {
	s, _ := newTestStore(t, "v1")
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return base }

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	s.now = func() time.Time { return base.Add(59 * time.Second) }
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("entry must still be live: %v", err)
	}
	s.now = func() time.Time { return base.Add(time.Minute) }
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after expiry, got %v", err)
	}
}

func TestGet_NoTTLNeverExpires(t *testing.T) {
	s, _ := newTestStore(t, "v1")
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	s.now = func() time.Time { return time.Now().Add(100 * 365 * 24 * time.Hour) }
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Errorf("expected entry without ttl to survive, got %v", err)
	}
}

func TestGet_VersionMismatch(t *testing.T) {
	s1, path := newTestStore(t, "v1")
	ctx := context.Background()
	if err := s1.SetWithTTL(ctx, "k", []byte("old"), time.Hour); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	s2, err := NewStore(path, "v2")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s2.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound for stale version, got %v", err)
	}
}

func TestSet_PreservesOtherKeys(t *testing.T) {
	s, path := newTestStore(t, "v1")
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := s.SetWithTTL(ctx, k, []byte("value-"+k), time.Hour); err != nil {
			t.Fatalf("SetWithTTL(%s): %v", k, err)
		}
	}
	if err := s.SetWithTTL(ctx, "b", []byte("updated"), time.Hour); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var entries map[string]entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries["a"].Content != "value-a" || entries["b"].Content != "updated" || entries["c"].Content != "value-c" {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if entries["a"].Version != "v1" {
		t.Errorf("expected version v1, got %q", entries["a"].Version)
	}
}

func TestDel(t *testing.T) {
	s, _ := newTestStore(t, "v1")
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after Del, got %v", err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Errorf("Del of absent key: %v", err)
	}
}

func TestCorruptFile(t *testing.T) {
	s, path := newTestStore(t, "v1")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := s.Get(context.Background(), "k")
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpRead {
		t.Errorf("expected READ db.Error, got %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail on corrupt file")
	}
}

func TestClose(t *testing.T) {
	s, _ := newTestStore(t, "v1")
	s.Close()

	if err := s.Ping(context.Background()); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
