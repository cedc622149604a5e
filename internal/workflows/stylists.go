package workflows

import (
	"context"
	"errors"

	"github.com/stylevault/stylevault/internal/assignment"
	kerrors "github.com/stylevault/stylevault/internal/errors"
)

// AddStylistOptions configures the add-stylist workflow.
type AddStylistOptions struct {
	ID   string
	Name string

	// MaxAssignments caps concurrent designs. Zero uses the configured default.
	MaxAssignments int
}

// StylistInfo is a roster entry plus whether the stylist can receive designs yet.
type StylistInfo struct {
	assignment.Stylist
	HasKeys bool
}

// AddStylist puts a stylist on the roster.
//
// Returns ErrStylistExists if the ID is already on the roster.
func (s *Service) AddStylist(ctx context.Context, opts AddStylistOptions) (*StylistInfo, error) {
	added, err := s.Assigner.Add(ctx, assignment.Stylist{
		ID:             opts.ID,
		Name:           opts.Name,
		MaxAssignments: opts.MaxAssignments,
	})
	if err != nil {
		return nil, s.upstream("adding stylist", err)
	}

	info := &StylistInfo{Stylist: *added}
	info.HasKeys, err = s.hasKeys(ctx, added.ID)
	if err != nil {
		return nil, err
	}
	if !info.HasKeys {
		s.Logger.WarnfUser("stylist %s has no keys yet and cannot receive designs until `stylevault keys create --user %s` is run", added.ID, added.ID)
	}
	return info, nil
}

// ListStylists returns the roster ordered by ID.
func (s *Service) ListStylists(ctx context.Context) ([]StylistInfo, error) {
	stylists, err := s.Assigner.List(ctx)
	if err != nil {
		return nil, s.upstream("listing stylists", err)
	}

	infos := make([]StylistInfo, 0, len(stylists))
	for _, st := range stylists {
		hasKeys, err := s.hasKeys(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		infos = append(infos, StylistInfo{Stylist: st, HasKeys: hasKeys})
	}
	return infos, nil
}

func (s *Service) hasKeys(ctx context.Context, userID string) (bool, error) {
	_, err := s.Registry.FindKeyMaterial(ctx, userID)
	if errors.Is(err, kerrors.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.upstream("looking up stylist keys", err)
	}
	return true, nil
}
