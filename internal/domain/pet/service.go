package pet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no pet exists with the given id.
var ErrNotFound = errors.New("pet not found")

// ErrNotOwner is returned when a caller touches a pet they do not own.
var ErrNotOwner = fmt.Errorf("pet does not belong to the caller")

type Service struct {
	pets Repository
}

func NewService(pets Repository) *Service {
	return &Service{pets: pets}
}

func (s *Service) CreatePet(ctx context.Context, ownerID uuid.UUID, p *Pet) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if ownerID == uuid.Nil {
		return fmt.Errorf("owner is required")
	}
	p.OwnerID = ownerID
	return s.pets.Create(ctx, p)
}

func (s *Service) GetPet(ctx context.Context, ownerID, id uuid.UUID) (*Pet, error) {
	p, err := s.pets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return p, nil
}

func (s *Service) ListPets(ctx context.Context, ownerID uuid.UUID) ([]*Pet, error) {
	return s.pets.ListByOwner(ctx, ownerID)
}

func (s *Service) UpdatePet(ctx context.Context, ownerID uuid.UUID, p *Pet) error {
	existing, err := s.GetPet(ctx, ownerID, p.ID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = existing.Name
	}
	if p.Species == "" {
		p.Species = existing.Species
	}
	p.OwnerID = ownerID
	return s.pets.Update(ctx, p)
}

func (s *Service) DeletePet(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.GetPet(ctx, ownerID, id); err != nil {
		return err
	}
	return s.pets.Delete(ctx, id)
}
