package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stylevault/stylevault/internal/assignment"
	"github.com/stylevault/stylevault/internal/audit"
	"github.com/stylevault/stylevault/internal/configs"
	"github.com/stylevault/stylevault/internal/designs"
	"github.com/stylevault/stylevault/internal/exchange"
	kerrors "github.com/stylevault/stylevault/internal/errors"
	logger "github.com/stylevault/stylevault/internal/logging"
	"github.com/stylevault/stylevault/internal/registry"
	"github.com/stylevault/stylevault/internal/workers"
)

// AuditLog is where a Service records and reads audit entries.
type AuditLog interface {
	audit.Sink
	audit.Reader
}

// Service wires the key registry, stylist roster, design store and audit log
// around the exchange core.
type Service struct {
	Registry registry.Registry
	Assigner *assignment.Assigner
	Designs  designs.Store
	Audit    AuditLog
	Pool     *workers.Pool
	Logger   logger.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Open builds a Service over the file-backed stores in the configured data directory.
func Open(cfg *configs.Config, settings *configs.Settings, log logger.Logger) (*Service, error) {
	dataDir := cfg.DataDir(settings)
	paths := configs.PathsFor(dataDir)
	log.Debugf("Using data directory %s", dataDir)

	reg, err := registry.NewFileRegistry(paths.RegistryDir)
	if err != nil {
		return nil, fmt.Errorf("opening key registry: %w", err)
	}
	store, err := designs.NewFileStore(paths.DesignsDir)
	if err != nil {
		return nil, fmt.Errorf("opening design store: %w", err)
	}

	return &Service{
		Registry: reg,
		Assigner: assignment.NewAssigner(assignment.NewFileRoster(paths.RosterPath), reg, cfg.Assignment.DefaultMaxAssignments),
		Designs:  store,
		Audit:    audit.NewFileSink(paths.AuditPath),
		Pool: workers.NewPool(workers.Options{
			MaxConcurrent: cfg.Crypto.MaxConcurrentOps,
			QueueTimeout:  cfg.Crypto.QueueTimeout.Duration,
		}),
		Logger: log,
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) record(entry audit.Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = s.now().Format(audit.TimestampFormat)
	}
	if err := audit.Log(s.Audit, entry); err != nil {
		s.Logger.WarnfAlways("%v", fmt.Errorf("%w: recording %s audit entry: %v", kerrors.ErrUpstreamFailure, entry.Operation, err))
	}
}

// passthrough are conditions collaborators report that callers act on
// directly; everything else from a collaborator is an upstream failure.
var passthrough = []error{
	kerrors.ErrKeyNotFound,
	kerrors.ErrMissingKeys,
	kerrors.ErrDesignNotFound,
	kerrors.ErrDesignExists,
	kerrors.ErrStylistNotFound,
	kerrors.ErrStylistUnavailable,
	kerrors.ErrStylistExists,
	kerrors.ErrNoCounterpartyAvailable,
	kerrors.ErrInvalidUserID,
	kerrors.ErrInvalidPublicKey,
	context.Canceled,
	context.DeadlineExceeded,
}

// upstream maps a collaborator error for the caller and logs it.
func (s *Service) upstream(op string, err error) error {
	if exchange.IsCryptoFailure(err) {
		return err
	}
	for _, target := range passthrough {
		if errors.Is(err, target) {
			return err
		}
	}
	return s.Logger.ErrorfAndReturn("%w: %s: %v", kerrors.ErrUpstreamFailure, op, err)
}

// findKeys looks up userID, reporting a missing user as ErrMissingKeys.
func (s *Service) findKeys(ctx context.Context, userID string) (*registry.KeyMaterial, error) {
	km, err := s.Registry.FindKeyMaterial(ctx, userID)
	if errors.Is(err, kerrors.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s has no keys, run `stylevault keys create` first", kerrors.ErrMissingKeys, userID)
	}
	if err != nil {
		return nil, s.upstream("looking up keys for "+userID, err)
	}
	return km, nil
}
