package testutil

import (
	"context"
	"minedash/internal/models"
	"minedash/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                  sync.Mutex
	PersistenceCalls    int
	EsiRequests         []string
	LedgerUpdates       map[string]int
	RecordsIngested     int
	CacheHits, CacheMis int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMis++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls++
}
func (m *MockMetrics) ObserveEsiRequest(operation string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EsiRequests = append(m.EsiRequests, operation)
}
func (m *MockMetrics) IncLedgerUpdates(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LedgerUpdates == nil {
		m.LedgerUpdates = make(map[string]int)
	}
	m.LedgerUpdates[outcome]++
}
func (m *MockMetrics) AddRecordsIngested(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordsIngested += count
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockSnapshotter implements repository.Snapshotter.
type MockSnapshotter struct {
	mu       sync.Mutex
	Current  *models.LedgerSnapshot
	Restored []*models.LedgerSnapshot
}

func (m *MockSnapshotter) Snapshot() *models.LedgerSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Current == nil {
		return &models.LedgerSnapshot{Version: models.SnapshotVersion}
	}
	return m.Current
}

func (m *MockSnapshotter) Restore(snapshot *models.LedgerSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restored = append(m.Restored, snapshot)
}

// MockKeyValueStore implements providers.KeyValueStoreInterface over a map.
type MockKeyValueStore struct {
	mu   sync.Mutex
	Data map[string][]byte
	Err  error
}

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{Data: make(map[string][]byte)}
}

func (m *MockKeyValueStore) Put(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Data[key] = value
	return nil
}

func (m *MockKeyValueStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *MockKeyValueStore) Take(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	v, ok := m.Data[key]
	delete(m.Data, key)
	return v, ok, nil
}

func (m *MockKeyValueStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	return nil
}

// MockEsiClient implements esi.ClientInterface from canned data.
type MockEsiClient struct {
	mu sync.Mutex

	Ledger    []models.LedgerEntry
	LedgerErr error
	Types     map[int64]*models.OreType
	TypeErr   error

	Tokens      *models.TokenSet
	ExchangeErr error
	RefreshErr  error
	Identity    *models.Identity
	VerifyErr   error

	// LedgerHook runs inside MiningLedger before it returns.
	LedgerHook func(characterID int64)

	LedgerCalls  int
	TypeCalls    int
	RefreshCalls int
	LastToken    string
}

func (m *MockEsiClient) AuthorizeURL(state string) string {
	return "https://sso.example/v2/oauth/authorize?state=" + state
}

func (m *MockEsiClient) ExchangeCode(_ context.Context, _ string) (*models.TokenSet, error) {
	if m.ExchangeErr != nil {
		return nil, m.ExchangeErr
	}
	return m.Tokens, nil
}

func (m *MockEsiClient) Refresh(_ context.Context, _ string) (*models.TokenSet, error) {
	m.mu.Lock()
	m.RefreshCalls++
	m.mu.Unlock()
	if m.RefreshErr != nil {
		return nil, m.RefreshErr
	}
	return m.Tokens, nil
}

func (m *MockEsiClient) Verify(_ context.Context, _ string) (*models.Identity, error) {
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	return m.Identity, nil
}

func (m *MockEsiClient) MiningLedger(_ context.Context, characterID int64, accessToken string) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	m.LedgerCalls++
	m.LastToken = accessToken
	hook := m.LedgerHook
	m.mu.Unlock()
	if hook != nil {
		hook(characterID)
	}
	if m.LedgerErr != nil {
		return nil, m.LedgerErr
	}
	return m.Ledger, nil
}

func (m *MockEsiClient) UniverseType(_ context.Context, typeID int64) (*models.OreType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TypeCalls++
	if m.TypeErr != nil {
		return nil, m.TypeErr
	}
	if t, ok := m.Types[typeID]; ok {
		return t, nil
	}
	return &models.OreType{TypeID: typeID, Name: "Unknown", Volume: 1}, nil
}

// MockNotifier records broadcast update events.
type MockNotifier struct {
	mu     sync.Mutex
	Events []*models.UpdateEvent
}

func (m *MockNotifier) Broadcast(event *models.UpdateEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
