package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvitationNotFound   = errors.New("invitation not found")
)

type OrganizationService struct {
	store *repository.Store
}

func NewOrganizationService(store *repository.Store) *OrganizationService {
	return &OrganizationService{store: store}
}

func (s *OrganizationService) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	org, err := s.store.Organizations.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}
	return org, nil
}

// GetInvitation returns the invitation only to the user it was sent to.
func (s *OrganizationService) GetInvitation(ctx context.Context, userID, invitationID uuid.UUID) (*dto.InvitationResponse, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	inv, err := s.store.Organizations.GetInvitationByID(ctx, invitationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if !strings.EqualFold(inv.Email, user.Email) {
		return nil, ErrForbidden
	}

	return &dto.InvitationResponse{
		ID:           inv.ID,
		Email:        inv.Email,
		Role:         inv.Role,
		Status:       inv.Status,
		ExpiresAt:    inv.ExpiresAt,
		Organization: inv.Organization,
	}, nil
}
