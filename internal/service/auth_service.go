package service

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("account with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrValidation           = errors.New("validation failed")
)

// Identity is the authenticated principal extracted from a bearer token.
type Identity struct {
	ID    string
	Email string
	Role  domain.Role
}

// AuthService registers coaches and authenticates both coaches and clients.
type AuthService interface {
	RegisterCoach(ctx context.Context, name, email, password string, plans []string) (*domain.Coach, error)
	// Login resolves the email against coaches first, then clients, and
	// returns a signed token carrying the account's id and role.
	Login(ctx context.Context, email, password string) (token string, identity *Identity, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	coachRepo     repository.CoachRepository
	clientRepo    repository.ClientRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(coachRepo repository.CoachRepository, clientRepo repository.ClientRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		coachRepo:     coachRepo,
		clientRepo:    clientRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// RegisterCoach handles coach signup.
func (s *authService) RegisterCoach(ctx context.Context, name, email, password string, plans []string) (*domain.Coach, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	_, err := s.coachRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	coach := &domain.Coach{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Plans:        plans,
	}

	coachID, err := s.coachRepo.Create(ctx, coach)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	coach.ID = coachID

	coach.PasswordHash = ""
	return coach, nil
}

// Login authenticates an email/password pair and issues a JWT. Coaches and
// clients live in separate collections, so the email is resolved against
// both, coaches first.
func (s *authService) Login(ctx context.Context, email, password string) (string, *Identity, error) {
	if email == "" || password == "" {
		return "", nil, ErrValidation
	}

	var identity Identity
	var passwordHash string

	coach, err := s.coachRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		identity = Identity{ID: coach.ID.Hex(), Email: coach.Email, Role: domain.RoleCoach}
		passwordHash = coach.PasswordHash
	case errors.Is(err, repository.ErrNotFound):
		client, cerr := s.clientRepo.GetByEmail(ctx, email)
		if cerr != nil {
			if errors.Is(cerr, repository.ErrNotFound) {
				return "", nil, ErrAuthenticationFailed
			}
			return "", nil, cerr
		}
		identity = Identity{ID: client.ID.Hex(), Email: client.Email, Role: domain.RoleClient}
		passwordHash = client.PasswordHash
	default:
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(&identity)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, &identity, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new signed token for the given identity.
func (s *authService) generateJWT(identity *Identity) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "coaching-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

// HashPassword hashes a plaintext password for storage. Shared with client
// provisioning, which issues credentials on client creation.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}
