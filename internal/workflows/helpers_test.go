package workflows

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stylevault/stylevault/internal/assignment"
	"github.com/stylevault/stylevault/internal/audit"
	"github.com/stylevault/stylevault/internal/designs"
	"github.com/stylevault/stylevault/internal/exchange"
	logger "github.com/stylevault/stylevault/internal/logging"
	"github.com/stylevault/stylevault/internal/registry"
	"github.com/stylevault/stylevault/internal/secrets"
	"github.com/stylevault/stylevault/internal/workers"
)

const designPayload = `{"style":"casual","occasion":"work"}`

func init() {
	color.NoColor = true
}

var (
	keyCacheMu sync.Mutex
	keyCache   = map[string]*exchange.Provisioned{}
)

// cachedKeys returns one key pair per password across the package's tests.
func cachedKeys(t *testing.T, password string) *exchange.Provisioned {
	t.Helper()
	keyCacheMu.Lock()
	defer keyCacheMu.Unlock()
	if p, ok := keyCache[password]; ok {
		return p
	}
	p, err := exchange.GenerateAndWrapKeyPair(secrets.PasswordFromString(password))
	require.NoError(t, err)
	keyCache[password] = p
	return p
}

type testEnv struct {
	svc    *Service
	reg    *registry.MemoryRegistry
	roster *assignment.MemoryRoster
	store  *designs.MemoryStore
	sink   *audit.MemorySink
	errOut *bytes.Buffer
}

// newTestEnv builds a Service over in-memory collaborators with users
// U (pw1), V (pw2, stylist) and T (pw3) already holding keys.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		reg:    registry.NewMemoryRegistry(),
		roster: assignment.NewMemoryRoster(),
		store:  designs.NewMemoryStore(),
		sink:   &audit.MemorySink{},
		errOut: &bytes.Buffer{},
	}
	env.svc = &Service{
		Registry: env.reg,
		Assigner: assignment.NewAssigner(env.roster, env.reg, 10),
		Designs:  env.store,
		Audit:    env.sink,
		Pool:     workers.NewPool(workers.Options{MaxConcurrent: 2}),
		Logger:   logger.Logger{Out: &bytes.Buffer{}, Err: env.errOut},
	}

	for id, pw := range map[string]string{"U": "pw1", "V": "pw2", "T": "pw3"} {
		env.addKeys(t, id, pw)
	}
	_, err := env.svc.AddStylist(context.Background(), AddStylistOptions{ID: "V", Name: "Vera"})
	require.NoError(t, err)
	return env
}

func (e *testEnv) addKeys(t *testing.T, id, password string) {
	t.Helper()
	require.NoError(t, e.reg.SaveKeyMaterial(context.Background(), id, cachedKeys(t, password).KeyMaterial()))
}

func (e *testEnv) workload(t *testing.T, id string) int {
	t.Helper()
	stylists, err := e.roster.Load()
	require.NoError(t, err)
	for _, s := range stylists {
		if s.ID == id {
			return s.CurrentAssignments
		}
	}
	t.Fatalf("stylist %s not on roster", id)
	return 0
}

func (e *testEnv) operations() []string {
	var ops []string
	for _, entry := range e.sink.Entries() {
		ops = append(ops, entry.Operation)
	}
	return ops
}

func pw(s string) secrets.Password {
	return secrets.PasswordFromString(s)
}

// mockRegistry is a registry.Registry whose behavior each test scripts.
type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) FindKeyMaterial(ctx context.Context, userID string) (*registry.KeyMaterial, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.KeyMaterial), args.Error(1)
}

func (m *mockRegistry) SaveKeyMaterial(ctx context.Context, userID string, km *registry.KeyMaterial) error {
	args := m.Called(ctx, userID, km)
	return args.Error(0)
}

// mockStore is a designs.Store whose behavior each test scripts.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, rec *designs.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) Get(ctx context.Context, id string) (*designs.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*designs.Record), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, filter designs.ListFilter) ([]*designs.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*designs.Record), args.Error(1)
}

// mockAudit is an AuditLog whose behavior each test scripts.
type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Record(entry audit.Entry) error {
	return m.Called(entry).Error(0)
}

func (m *mockAudit) ReadAll() ([]audit.Entry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.Entry), args.Error(1)
}
