package usecase

import (
	"context"
	"errors"
	"fmt"

	"clinic-appointment-platform/config"
	"clinic-appointment-platform/internal/converter"
	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/delivery/http/middleware"
	"clinic-appointment-platform/internal/domain/entity"
	"clinic-appointment-platform/internal/domain/repository"
	"clinic-appointment-platform/internal/service"
	"clinic-appointment-platform/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrAccountDisabled     = errors.New("account is disabled")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
}

type authUsecase struct {
	log         *logrus.Logger
	userRepo    repository.UserRepository
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	jwtConfig   config.JWTConfig
	audit       service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	jwtConfig config.JWTConfig,
	audit service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:         log,
		userRepo:    userRepo,
		jwtService:  jwtService,
		redisClient: redisClient,
		jwtConfig:   jwtConfig,
		audit:       audit,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, ErrStoreUnavailable
	}

	user := &entity.User{
		ID:       uuid.New(),
		RoleID:   entity.RoleIDPatient,
		Email:    req.Email,
		Password: string(hashed),
		FullName: req.FullName,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, ErrStoreUnavailable
	}

	u.audit.Record(ctx, &user.ID, entity.AuditActionUserRegister, entity.JSON{
		"user_id": user.ID.String(),
		"role_id": user.RoleID,
	})

	u.log.Infof("Patient registered: %s", user.ID)
	return converter.UserToResponse(user), nil
}

// RegisterDoctor creates a doctor account with its profile in one insert;
// the route is admin-only.
func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, ErrStoreUnavailable
	}

	user := &entity.User{
		ID:       uuid.New(),
		RoleID:   entity.RoleIDDoctor,
		Email:    req.Email,
		Password: string(hashed),
		FullName: req.FullName,
		Phone:    req.Phone,
		IsActive: true,
		DoctorProfile: &entity.DoctorProfile{
			Specialization: req.Specialization,
			Biography:      req.Biography,
		},
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, ErrStoreUnavailable
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.Record(ctx, &actorID, entity.AuditActionUserRegister, entity.JSON{
		"user_id": user.ID.String(),
		"role_id": user.RoleID,
	})

	u.log.Infof("Doctor registered: %s", user.ID)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to load user by email: %+v", err)
		return nil, ErrStoreUnavailable
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, &user.ID, entity.AuditActionUserLogin, entity.JSON{
		"user_id": user.ID.String(),
	})

	return tokens, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked and a
// fresh access/refresh pair is issued.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidRefreshToken
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.UserID, claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token in redis: %+v", err)
		return nil, ErrStoreUnavailable
	}
	if exists == 0 {
		return nil, ErrInvalidRefreshToken
	}

	user, err := u.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to load user %s: %+v", claims.UserID, err)
		return nil, ErrStoreUnavailable
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the access token the caller presented.
func (u *authUsecase) Logout(ctx context.Context) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}
	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return errors.New("token not found in context")
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", userID, tokenID)
	if err := u.redisClient.Del(ctx, accessKey).Err(); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return ErrStoreUnavailable
	}

	u.audit.Record(ctx, &userID, entity.AuditActionUserLogout, entity.JSON{
		"user_id": userID.String(),
	})

	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to load user %s: %+v", userID, err)
		return nil, ErrStoreUnavailable
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// issueTokens generates an access/refresh pair and registers both token IDs
// in Redis; the auth middleware treats a missing key as a revoked token.
func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, ErrStoreUnavailable
	}
	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, ErrStoreUnavailable
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", user.ID, accessTokenID)
	if err := u.redisClient.Set(ctx, accessKey, "1", u.jwtConfig.AccessExpiry).Err(); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, ErrStoreUnavailable
	}
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", user.ID, refreshTokenID)
	if err := u.redisClient.Set(ctx, refreshKey, "1", u.jwtConfig.RefreshExpiry).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, ErrStoreUnavailable
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}, nil
}
