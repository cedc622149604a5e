// Package designs stores encrypted design records.
//
// A Record ties an Envelope to its owner and the stylist it was shared
// with. Records are immutable: Save refuses to replace an existing ID and
// there is no update or delete.
package designs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stylevault/stylevault/internal/secrets"
)

// Record is one stored design.
type Record struct {
	ID               string            `json:"id"`
	OwnerID          string            `json:"ownerId"`
	CounterpartyID   string            `json:"counterpartyId"`
	AssignmentMethod string            `json:"assignmentMethod"`
	Envelope         *secrets.Envelope `json:"envelope"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// VisibleTo reports whether userID is the owner or the counterparty.
func (r *Record) VisibleTo(userID string) bool {
	return r.OwnerID == userID || r.CounterpartyID == userID
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	// UserID keeps records the user owns or was assigned.
	UserID string

	// Match is a doublestar glob over record IDs.
	Match string
}

// Store persists design records.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]*Record, error)
}

// filterRecords applies filter and orders the result oldest first.
func filterRecords(records []*Record, filter ListFilter) ([]*Record, error) {
	if filter.Match != "" && !doublestar.ValidatePattern(filter.Match) {
		return nil, fmt.Errorf("invalid match pattern %q: %w", filter.Match, doublestar.ErrBadPattern)
	}

	var result []*Record
	for _, rec := range records {
		if filter.UserID != "" && !rec.VisibleTo(filter.UserID) {
			continue
		}
		if filter.Match != "" {
			ok, err := doublestar.Match(filter.Match, rec.ID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		result = append(result, rec)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func validateRecord(rec *Record) error {
	if rec == nil || rec.Envelope == nil {
		return errors.New("design record has no envelope")
	}
	if !validID(rec.ID) || rec.OwnerID == "" {
		return fmt.Errorf("design record needs a valid ID and an owner, got ID %q", rec.ID)
	}
	return nil
}

// validID reports whether id can be used as a file name.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`+"\x00")
}
