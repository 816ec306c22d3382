package auth

import (
	"context"
	"time"

	autherrors "go-empms/internal/auth/errors"
	"go-empms/internal/rbac"
	"go-empms/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	Logout(ctx context.Context, jti string, expiresAt time.Time) error

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	repo    Repository
	revoker *RedisRevoker
	logger  *zap.Logger
}

func NewService(repo Repository, revoker *RedisRevoker) Service {
	return &service{
		repo:    repo,
		revoker: revoker,
		logger:  zap.L().Named("auth.service"),
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !rbac.ValidRole(u.Role) {
		s.logger.Error("user has unknown role", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, _, err := issueToken(u.ID.String(), u.Role, AccessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	refreshToken, _, err := issueToken(u.ID.String(), u.Role, RefreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("login", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))

	return accessToken, refreshToken, toAuthResponse(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	claims, err := parseToken(refreshToken)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	jti, _ := claims["jti"].(string)
	if jti != "" {
		revoked, err := s.revoker.IsRevoked(ctx, jti)
		if err != nil {
			return "", "", AuthResponse{}, err
		}
		if revoked {
			return "", "", AuthResponse{}, autherrors.ErrTokenRevoked
		}
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	// Role is re-read from the store so a role change takes effect on
	// the next refresh, not only after the old token expires.
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	newAccess, _, err := issueToken(u.ID.String(), u.Role, AccessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	newRefresh, _, err := issueToken(u.ID.String(), u.Role, RefreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return newAccess, newRefresh, toAuthResponse(u), nil
}

func (s *service) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("revoke failed", zap.String("jti", jti), zap.Error(err))
		return err
	}
	s.logger.Info("token revoked", zap.String("jti", jti))
	return nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	resp := toAuthResponse(u)
	return &resp, nil
}

func toAuthResponse(u *user.User) AuthResponse {
	resp := AuthResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Role:  u.Role,
	}
	if u.Profile != nil {
		resp.EmpID = u.Profile.EmpID
		resp.Name = u.Profile.FullName
	}
	return resp
}
