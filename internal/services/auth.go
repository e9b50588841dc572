package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"asset-system/internal/authz"
	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/repositories"
	"asset-system/pkg/config"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/service"
	"asset-system/pkg/utils"
)

const (
	resetTokenKey    = "password-reset:token:%s"
	resetAttemptsKey = "password-reset:attempts:%s"
)

type AuthService struct {
	userRepository repositories.UserRepositoryInterface
	cache          repositories.CacheRepositoryInterface
	jwtService     service.JWTService
	notifications  NotificationServiceInterface
	cfg            config.AuthConfig
	logger         *zap.Logger
}

func NewAuthService(
	userRepository repositories.UserRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	notifications NotificationServiceInterface,
	cfg config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		cache:          cache,
		jwtService:     jwtService,
		notifications:  notifications,
		cfg:            cfg,
		logger:         logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepository.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	if utils.CheckPassword(user.Password, payload.Password) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *toUserDTO(user),
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	user, err := s.userRepository.FindUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *toUserDTO(user),
	}, nil
}

// Register creates a new account. Only admins may register users, since
// role and branch assignment decide what the account can touch.
func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.UserDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if actor.Role != authz.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	role := authz.Role(payload.Role)
	if payload.Role == "" {
		role = authz.RoleUser
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.userRepository.CreateUser(ctx, entities.User{
		Username: payload.Username,
		Email:    payload.Email,
		Password: hash,
		Role:     role,
		BranchID: payload.BranchID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint64("id", id), zap.String("role", string(role)))
	user, err := s.userRepository.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func (s *AuthService) Profile(ctx context.Context) (*dto.UserDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepository.FindUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, payload dto.UpdatePasswordDTO) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	user, err := s.userRepository.FindUser(ctx, actor.ID)
	if err != nil {
		return err
	}
	if utils.CheckPassword(user.Password, payload.CurrentPassword) != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, actor.ID, hash)
}

// ForgotPassword issues a one-time reset token. A missing account gets
// the same silent success so the endpoint cannot be used to probe emails.
func (s *AuthService) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordDTO) error {
	user, err := s.userRepository.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	attemptsKey := fmt.Sprintf(resetAttemptsKey, user.Email)
	attempts, err := s.cache.Incr(ctx, attemptsKey)
	if err != nil {
		return err
	}
	if attempts == 1 {
		if _, err := s.cache.Expire(ctx, attemptsKey, time.Hour); err != nil {
			return err
		}
	}
	if attempts > int64(s.cfg.ResetMaxAttempts) {
		return apperrors.NewHttpError(429, "too many reset requests, try again later", nil, nil)
	}

	token := uuid.New().String()
	if err := s.cache.Set(ctx, fmt.Sprintf(resetTokenKey, token), user.ID, s.cfg.ResetTokenTTL); err != nil {
		return err
	}

	return s.notifications.SendPasswordResetEmail(user.Email, token)
}

func (s *AuthService) ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error {
	key := fmt.Sprintf(resetTokenKey, payload.Token)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrInvalidToken
		}
		return err
	}

	var userID uint64
	if _, err := fmt.Sscanf(raw, "%d", &userID); err != nil {
		return apperrors.ErrInvalidToken
	}

	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// Token is single-use.
	return s.cache.Del(ctx, key)
}
