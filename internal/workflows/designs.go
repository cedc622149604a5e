package workflows

import (
	"context"

	"github.com/stylevault/stylevault/internal/designs"
	"github.com/stylevault/stylevault/internal/registry"
)

// ListDesignsOptions configures the list-designs workflow.
type ListDesignsOptions struct {
	// UserID limits the list to designs the user owns or was assigned.
	UserID string

	// Match is a glob over design IDs, e.g. "2f1c*".
	Match string
}

// ListDesigns returns design records, oldest first. Envelopes are included
// but nothing is decrypted.
func (s *Service) ListDesigns(ctx context.Context, opts ListDesignsOptions) ([]*designs.Record, error) {
	if opts.UserID != "" {
		if err := registry.ValidateUserID(opts.UserID); err != nil {
			return nil, err
		}
	}
	records, err := s.Designs.List(ctx, designs.ListFilter{UserID: opts.UserID, Match: opts.Match})
	if err != nil {
		return nil, s.upstream("listing designs", err)
	}
	return records, nil
}
