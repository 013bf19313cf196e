package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/models"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/storage"
)

var ErrStorageUnavailable = errors.New("failed to create signed url")

type URLSigner interface {
	UploadURL(ctx context.Context, bucket, path string) (string, error)
	DownloadURL(ctx context.Context, bucket, path string) (string, error)
}

type UserService struct {
	store  *repository.Store
	signer URLSigner
}

func NewUserService(store *repository.Store, signer URLSigner) *UserService {
	return &UserService{store: store, signer: signer}
}

func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Locale != nil {
		fields["locale"] = *req.Locale
	}

	if len(fields) > 0 {
		err := s.store.Users.Update(ctx, userID, fields)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return s.Me(ctx, userID)
}

func (s *UserService) UploadURL(ctx context.Context, req *dto.SignedURLRequest) (string, error) {
	url, err := s.signer.UploadURL(ctx, req.Bucket, req.Path)
	return s.signed(url, err, req)
}

func (s *UserService) DownloadURL(ctx context.Context, req *dto.SignedURLRequest) (string, error) {
	url, err := s.signer.DownloadURL(ctx, req.Bucket, req.Path)
	return s.signed(url, err, req)
}

func (s *UserService) signed(url string, err error, req *dto.SignedURLRequest) (string, error) {
	if err == nil {
		return url, nil
	}
	if errors.Is(err, storage.ErrBucketNotAllowed) || errors.Is(err, storage.ErrEmptyPath) {
		return "", err
	}
	slog.Error("failed to sign storage url", "bucket", req.Bucket, "path", req.Path, "error", err)
	return "", ErrStorageUnavailable
}
