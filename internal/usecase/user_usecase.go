package usecase

import (
	"context"
	"strings"
	"time"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
)

// AuthClient is the slice of the identity provider the user flow needs.
type AuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
}

type UserUseCase struct {
	profileRepo repository.ProfileRepository
	authClient  AuthClient
}

func NewUserUseCase(profileRepo repository.ProfileRepository, authClient AuthClient) *UserUseCase {
	return &UserUseCase{
		profileRepo: profileRepo,
		authClient:  authClient,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*entity.Profile, error) {
	if input.Role != entity.RoleClient && input.Role != entity.RoleMerchant {
		return nil, errors.Validation("role must be client or merchant")
	}

	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, errors.Validation("display name is required")
	}

	existing, err := uc.profileRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, errors.BadRequest("Email already in use", nil)
	}

	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	now := time.Now()
	profile := &entity.Profile{
		ID:          uid,
		Email:       input.Email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        input.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, errors.Internal("Failed to create profile record", err)
	}

	return profile, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	return uc.profileRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	DisplayName string
	AvatarURL   string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.DisplayName) != "" {
		profile.DisplayName = strings.TrimSpace(input.DisplayName)
	}
	if input.AvatarURL != "" {
		profile.AvatarURL = input.AvatarURL
	}
	profile.UpdatedAt = time.Now()

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// Identity resolves the signed-in principal for a verified uid. The role
// comes from the profile row, never from the client.
func (uc *UserUseCase) Identity(ctx context.Context, userID string) (entity.Identity, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return entity.Identity{}, err
	}

	return entity.Identity{ID: profile.ID, Role: profile.Role}, nil
}
