package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"account-service/internal/domain"
	"account-service/internal/repository"
)

// UserService coordina registro, autenticación y ciclo de vida de cuentas.
type UserService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	jwtServ *JWTService
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, jwtServ *JWTService) *UserService {
	return &UserService{
		logger:  logger,
		users:   users,
		jwtServ: jwtServ,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrEmailDeactivated = errors.New("email previously registered and deactivated, please use a different email")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserGone         = errors.New("user doesn't exist or has been deactivated")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrAlreadyActive    = errors.New("user is already active")
	ErrAlreadyInactive  = errors.New("user is already deactivated")
)

// Register crea una cuenta activa nueva. Un email ya registrado falla
// siempre, también cuando la cuenta anterior fue desactivada: el email
// queda reservado de forma permanente.
func (s *UserService) Register(ctx context.Context, email, fullName, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.Active() {
			return domain.User{}, ErrEmailDeactivated
		}
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		// Registro duplicado concurrente: el índice único gana la carrera.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return created, nil
}

// Login autentica contra la cuenta activa y emite el par de tokens. Una
// cuenta inexistente y una desactivada son indistinguibles para el caller.
func (s *UserService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if s.users == nil || s.jwtServ == nil {
		return TokenPair{}, errors.New("user service not configured")
	}

	user, err := s.users.GetActiveByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TokenPair{}, ErrUserGone
		}
		return TokenPair{}, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return TokenPair{}, ErrInvalidPassword
	}

	access, err := s.jwtServ.IssueAccess(user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.jwtServ.IssueRefresh(user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Refresh valida un refresh token y emite solo un access token nuevo; el
// refresh token original sigue siendo válido hasta su expiración.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if s.users == nil || s.jwtServ == nil {
		return "", errors.New("user service not configured")
	}

	claims, err := s.jwtServ.VerifyRefresh(refreshToken)
	if err != nil {
		return "", ErrTokenInvalid
	}

	user, err := s.users.GetActiveByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return s.jwtServ.IssueAccess(user.Email)
}

// ResolveUser resuelve un access token a su cuenta activa.
func (s *UserService) ResolveUser(ctx context.Context, accessToken string) (domain.User, error) {
	if s.users == nil || s.jwtServ == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	claims, err := s.jwtServ.VerifyAccess(accessToken)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetActiveByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Deactivate pasa la cuenta de active a inactive (soft delete).
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	return s.transition(ctx, id, domain.StatusInactive)
}

// Activate pasa la cuenta de inactive a active.
func (s *UserService) Activate(ctx context.Context, id int64) error {
	return s.transition(ctx, id, domain.StatusActive)
}

func (s *UserService) transition(ctx context.Context, id int64, target domain.AccountStatus) error {
	if s.users == nil {
		return errors.New("user service not configured")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Status == target {
		if target == domain.StatusActive {
			return ErrAlreadyActive
		}
		return ErrAlreadyInactive
	}

	if err := s.users.SetStatus(ctx, id, target); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if s.logger != nil {
		s.logger.Info("account status changed",
			zap.Int64("user_id", id),
			zap.String("status", string(target)),
		)
	}
	return nil
}
