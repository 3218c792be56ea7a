package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/profile/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const avatarDir = "avatars"

type ProfileDTO struct {
	UserID          uuid.UUID     `json:"userId"`
	Email           string        `json:"email"`
	Username        string        `json:"username"`
	Role            identity.Role `json:"role"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	FullName        *string       `json:"fullName"`
	PhoneNumber     *string       `json:"phoneNumber"`
	ProfileImageURL *string       `json:"profileImageUrl"`
	IsFollowed      bool          `json:"isFollowed"`
}

type UpdateProfileDTO struct {
	FullName    *string
	PhoneNumber *string
}

type UpdatedProfileDTO struct {
	FullName        *string `json:"fullName"`
	PhoneNumber     *string `json:"phoneNumber"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, viewer identity.Actor, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, actor identity.Actor, in UpdateProfileDTO, avatar *storage.File) (*UpdatedProfileDTO, error)
}

type profileService struct {
	repo    domain.ProfileRepository
	follows domain.FollowChecker
	files   storage.FileStorage
}

func NewProfileService(repo domain.ProfileRepository, follows domain.FollowChecker, files storage.FileStorage) ProfileService {
	return &profileService{repo: repo, follows: follows, files: files}
}

func (s *profileService) url(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	u := s.files.URL(*key)
	return &u
}

func (s *profileService) GetProfile(ctx context.Context, viewer identity.Actor, userID uuid.UUID) (*ProfileDTO, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile use case: %w", err)
	}

	out := &ProfileDTO{
		UserID:          p.UserID,
		Email:           p.Email,
		Username:        p.Username,
		Role:            p.Role,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		FullName:        p.FullName,
		PhoneNumber:     p.PhoneNumber,
		ProfileImageURL: s.url(p.ImageKey),
	}
	if !viewer.Anonymous() && viewer.UserID != userID {
		out.IsFollowed, err = s.follows.IsFollowing(ctx, viewer.UserID, userID)
		if err != nil {
			return nil, fmt.Errorf("get profile use case: %w", err)
		}
	}
	return out, nil
}

// UpdateProfile stores the new avatar before writing the row and drops the
// previous avatar only once the row points at the new one.
func (s *profileService) UpdateProfile(ctx context.Context, actor identity.Actor, in UpdateProfileDTO, avatar *storage.File) (*UpdatedProfileDTO, error) {
	changes := domain.Changes{UserID: actor.UserID, FullName: in.FullName, PhoneNumber: in.PhoneNumber}

	var previous *string
	if avatar != nil {
		if err := storage.ValidateImage(*avatar); err != nil {
			return nil, err
		}
		current, err := s.repo.Get(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("update profile use case: %w", err)
		}
		previous = current.ImageKey

		key, err := s.files.Upload(ctx, avatarDir, *avatar)
		if err != nil {
			return nil, fmt.Errorf("update profile use case: upload avatar: %w", err)
		}
		changes.ImageKey = &key
	}

	stored, err := s.repo.Upsert(ctx, changes)
	if err != nil {
		if changes.ImageKey != nil {
			s.remove(ctx, *changes.ImageKey)
		}
		return nil, fmt.Errorf("update profile use case: %w", err)
	}
	if previous != nil && *previous != "" {
		s.remove(ctx, *previous)
	}

	log.Info("Profile updated", zap.String("userID", actor.UserID.String()), zap.Bool("avatar", avatar != nil))
	return &UpdatedProfileDTO{
		FullName:        stored.FullName,
		PhoneNumber:     stored.PhoneNumber,
		ProfileImageURL: s.url(stored.ImageKey),
	}, nil
}

func (s *profileService) remove(ctx context.Context, key string) {
	if err := s.files.Delete(ctx, key); err != nil {
		log.Warn("Failed to delete avatar", zap.String("key", key), zap.Error(err))
	}
}
