package workflows

import (
	"context"
	"time"

	"github.com/stylevault/stylevault/internal/assignment"
	"github.com/stylevault/stylevault/internal/audit"
	"github.com/stylevault/stylevault/internal/configs"
	"github.com/stylevault/stylevault/internal/designs"
	"github.com/stylevault/stylevault/internal/exchange"
	"github.com/stylevault/stylevault/internal/registry"
	"github.com/stylevault/stylevault/internal/secrets"
	"github.com/stylevault/stylevault/internal/workers"
)

// UploadOptions configures the upload workflow.
type UploadOptions struct {
	UploaderID string
	Password   secrets.Password

	// Payload is the design as JSON.
	Payload []byte

	// StylistID selects a stylist manually. Empty assigns automatically.
	StylistID string
}

// UploadResult contains the outcome of an upload operation.
type UploadResult struct {
	DesignID         string
	CounterpartyID   string
	CounterpartyName string
	Method           assignment.Method
	Workload         int
	MaxAssignments   int
	CreatedAt        time.Time
}

// Upload seals a design for the uploader and a stylist and stores it.
//
// The stylist's workload is taken before sealing and given back if any later
// step fails.
//
// Returns ErrInvalidPayload if the payload is not JSON.
// Returns ErrMissingKeys if the uploader or the stylist has no keys.
// Returns ErrNoCounterpartyAvailable, ErrStylistNotFound or ErrStylistUnavailable
// from assignment.
// Returns ErrInvalidPassword if the password does not unlock the uploader's key.
// Returns ErrInvalidPublicKey if a stored public key is corrupt.
// Returns ErrUpstreamFailure if a collaborator fails.
func (s *Service) Upload(ctx context.Context, opts UploadOptions) (result *UploadResult, err error) {
	if _, err := secrets.Canonicalize(opts.Payload); err != nil {
		return nil, err
	}

	uploaderKeys, err := s.findKeys(ctx, opts.UploaderID)
	if err != nil {
		return nil, err
	}

	var cp *assignment.Counterparty
	if opts.StylistID == "" {
		cp, err = s.Assigner.PickCounterparty(ctx, opts.UploaderID)
	} else {
		cp, err = s.Assigner.Select(ctx, opts.UploaderID, opts.StylistID)
	}
	if err != nil {
		return nil, s.upstream("assigning stylist", err)
	}
	s.Logger.Infof("Assigned stylist %s (%s, workload %d/%d)", cp.ID, cp.Method, cp.Workload, cp.MaxAssignments)

	defer func() {
		if err == nil {
			return
		}
		// Detached from ctx so a cancelled upload still gives the slot back.
		if relErr := s.Assigner.Release(context.WithoutCancel(ctx), cp.ID); relErr != nil {
			s.Logger.WarnfAlways("Failed to release stylist %s after failed upload: %v", cp.ID, relErr)
		}
	}()

	env, err := workers.Do(ctx, s.Pool, func() (*secrets.Envelope, error) {
		return exchange.Upload(opts.Payload, opts.Password,
			exchange.Participant{ID: opts.UploaderID, Keys: uploaderKeys},
			exchange.Participant{ID: cp.ID, Keys: &registry.KeyMaterial{PublicKey: cp.PublicKey}},
		)
	})
	if err != nil {
		return nil, err
	}

	designID := configs.GenerateDesignID()
	s.record(audit.Entry{
		UserID:       opts.UploaderID,
		Operation:    audit.OpEnvelopeCreated,
		ResourceType: audit.ResourceDesign,
		ResourceID:   designID,
		Recipients:   len(env.WrappedKeys),
	})

	rec := &designs.Record{
		ID:               designID,
		OwnerID:          opts.UploaderID,
		CounterpartyID:   cp.ID,
		AssignmentMethod: string(cp.Method),
		Envelope:         env,
		CreatedAt:        env.Timestamp,
	}
	if err := s.Designs.Save(ctx, rec); err != nil {
		return nil, s.upstream("storing design", err)
	}

	assignOp := audit.OpStylistAssigned
	if cp.Method == assignment.MethodManual {
		assignOp = audit.OpStylistSelected
	}
	s.record(audit.Entry{
		UserID:         opts.UploaderID,
		Operation:      assignOp,
		ResourceType:   audit.ResourceStylist,
		ResourceID:     cp.ID,
		CounterpartyID: cp.ID,
		Method:         string(cp.Method),
	})
	s.record(audit.Entry{
		UserID:         opts.UploaderID,
		Operation:      audit.OpDesignUploaded,
		ResourceType:   audit.ResourceDesign,
		ResourceID:     designID,
		CounterpartyID: cp.ID,
		Method:         string(cp.Method),
	})

	return &UploadResult{
		DesignID:         designID,
		CounterpartyID:   cp.ID,
		CounterpartyName: cp.Name,
		Method:           cp.Method,
		Workload:         cp.Workload,
		MaxAssignments:   cp.MaxAssignments,
		CreatedAt:        rec.CreatedAt,
	}, nil
}
