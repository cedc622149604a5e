package assignment

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/semaphore"

	"github.com/stylevault/stylevault/internal/configs"
	kerrors "github.com/stylevault/stylevault/internal/errors"
	"github.com/stylevault/stylevault/internal/registry"
)

// Method records how a counterparty was chosen.
type Method string

const (
	MethodAutomatic Method = "automatic"
	MethodManual    Method = "manual"
)

// Counterparty is the stylist chosen for a design, with the public key the
// envelope will be wrapped to.
type Counterparty struct {
	ID             string
	Name           string
	PublicKey      *rsa.PublicKey
	Method         Method
	Workload       int
	MaxAssignments int
}

// Assigner chooses stylists from a Roster and resolves their keys through a
// Registry. Read-modify-write of the roster is serialized.
type Assigner struct {
	roster     Roster
	keys       registry.Registry
	defaultMax int

	// mu serializes roster updates; acquiring it honours ctx.
	mu *semaphore.Weighted
}

// NewAssigner creates an Assigner. defaultMax caps stylists added without an
// explicit maximum; zero means configs.DefaultMaxAssignments.
func NewAssigner(roster Roster, keys registry.Registry, defaultMax int) *Assigner {
	if defaultMax <= 0 {
		defaultMax = configs.DefaultMaxAssignments
	}
	return &Assigner{
		roster:     roster,
		keys:       keys,
		defaultMax: defaultMax,
		mu:         semaphore.NewWeighted(1),
	}
}

// PickCounterparty assigns the eligible stylist with the lowest workload.
//
// Returns ErrNoCounterpartyAvailable if no stylist is eligible.
// Returns ErrMissingKeys if the chosen stylist has no registered public key;
// the workload is left unchanged in that case.
func (a *Assigner) PickCounterparty(ctx context.Context, requesterID string) (*Counterparty, error) {
	if err := a.mu.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.mu.Release(1)

	stylists, err := a.roster.Load()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, s := range stylists {
		if !s.Eligible() || s.ID == requesterID {
			continue
		}
		if idx == -1 || less(s, stylists[idx]) {
			idx = i
		}
	}
	if idx == -1 {
		return nil, kerrors.ErrNoCounterpartyAvailable
	}

	return a.assign(ctx, stylists, idx, MethodAutomatic)
}

// Select assigns the stylist the requester chose.
//
// Returns ErrStylistNotFound for an unknown ID and ErrStylistUnavailable for
// a stylist who is inactive, unavailable or at capacity.
func (a *Assigner) Select(ctx context.Context, requesterID, stylistID string) (*Counterparty, error) {
	if err := a.mu.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.mu.Release(1)

	stylists, err := a.roster.Load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(stylists, stylistID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrStylistNotFound, stylistID)
	}
	s := stylists[idx]
	switch {
	case !s.Active:
		return nil, fmt.Errorf("%w: %s is not active", kerrors.ErrStylistUnavailable, stylistID)
	case !s.Available || !s.HasCapacity():
		return nil, fmt.Errorf("%w: %s is not available", kerrors.ErrStylistUnavailable, stylistID)
	case s.ID == requesterID:
		return nil, fmt.Errorf("%w: cannot select yourself", kerrors.ErrStylistUnavailable)
	}

	return a.assign(ctx, stylists, idx, MethodManual)
}

// Release gives back one unit of workload. Unknown stylists are ignored and
// the workload never drops below zero.
func (a *Assigner) Release(ctx context.Context, stylistID string) error {
	if err := a.mu.Acquire(ctx, 1); err != nil {
		return err
	}
	defer a.mu.Release(1)

	stylists, err := a.roster.Load()
	if err != nil {
		return err
	}
	idx := indexOf(stylists, stylistID)
	if idx == -1 {
		return nil
	}
	if stylists[idx].CurrentAssignments > 0 {
		stylists[idx].CurrentAssignments--
	}
	return a.roster.Save(stylists)
}

// Add puts a new, active and available stylist on the roster.
func (a *Assigner) Add(ctx context.Context, s Stylist) (*Stylist, error) {
	if err := registry.ValidateUserID(s.ID); err != nil {
		return nil, err
	}
	if err := a.mu.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.mu.Release(1)

	stylists, err := a.roster.Load()
	if err != nil {
		return nil, err
	}
	if indexOf(stylists, s.ID) != -1 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrStylistExists, s.ID)
	}
	if s.MaxAssignments <= 0 {
		s.MaxAssignments = a.defaultMax
	}
	s.Active = true
	s.Available = true
	s.CurrentAssignments = 0

	if err := a.roster.Save(append(stylists, s)); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns the roster ordered by ID.
func (a *Assigner) List(ctx context.Context) ([]Stylist, error) {
	if err := a.mu.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.mu.Release(1)

	stylists, err := a.roster.Load()
	if err != nil {
		return nil, err
	}
	sort.Slice(stylists, func(i, j int) bool { return stylists[i].ID < stylists[j].ID })
	return stylists, nil
}

func (a *Assigner) assign(ctx context.Context, stylists []Stylist, idx int, method Method) (*Counterparty, error) {
	s := stylists[idx]

	km, err := a.keys.FindKeyMaterial(ctx, s.ID)
	if errors.Is(err, kerrors.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: stylist %s has no registered public key", kerrors.ErrMissingKeys, s.ID)
	}
	if err != nil {
		return nil, err
	}

	stylists[idx].CurrentAssignments++
	if err := a.roster.Save(stylists); err != nil {
		return nil, err
	}

	return &Counterparty{
		ID:             s.ID,
		Name:           s.Name,
		PublicKey:      km.PublicKey,
		Method:         method,
		Workload:       stylists[idx].CurrentAssignments,
		MaxAssignments: s.MaxAssignments,
	}, nil
}

func less(a, b Stylist) bool {
	if a.CurrentAssignments != b.CurrentAssignments {
		return a.CurrentAssignments < b.CurrentAssignments
	}
	return a.ID < b.ID
}

func indexOf(stylists []Stylist, id string) int {
	for i, s := range stylists {
		if s.ID == id {
			return i
		}
	}
	return -1
}
