package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/absensi-api/internal/models"
	"github.com/noah-isme/absensi-api/pkg/config"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
)

type authUserRepository interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	FindStudentByNIM(ctx context.Context, nim string) (*models.Student, error)
	FindStudentByID(ctx context.Context, id int64) (*models.Student, error)
	FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	EnsureAdmin(ctx context.Context, admin *models.Admin) error
}

// AuthService handles student registration and student/admin login, issuing
// JWT access tokens. Credential comparison is exact by default; the hashed
// mode covers new registrations once AUTH_HASH_PASSWORDS is enabled.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	jwtCfg    config.JWTConfig
	authCfg   config.AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, jwtCfg config.JWTConfig, authCfg config.AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, jwtCfg: jwtCfg, authCfg: authCfg}
}

// SeedAdmin creates the configured admin account when it does not exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context) error {
	secret, err := s.storedSecret(s.authCfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := models.NewAdmin(s.authCfg.AdminName, s.authCfg.AdminUsername, secret)
	return s.repo.EnsureAdmin(ctx, admin)
}

// RegisterStudent creates a new student account. The NIM doubles as the login
// username and must be unique.
func (s *AuthService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	existing, err := s.repo.FindStudentByNIM(ctx, req.NIM)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateNIM, "")
	}

	secret, err := s.storedSecret(req.Password)
	if err != nil {
		return nil, err
	}
	student := models.NewStudent(req.Name, req.NIM, req.NIM, secret, req.ClassName)
	if err := s.repo.CreateStudent(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student registered", zap.Int64("id", student.ID), zap.String("class", student.ClassName))
	return student, nil
}

// StudentLogin authenticates a student by NIM and password.
func (s *AuthService) StudentLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	student, err := s.repo.FindStudentByNIM(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if student == nil || !s.checkCredential(&student.User, req.Password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, err := s.generateToken(&student.User)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtCfg.Expiration.Seconds()),
		User: models.UserInfo{
			ID:        student.ID,
			Username:  student.Username,
			Name:      student.Name,
			Role:      student.Role,
			NIM:       &student.NIM,
			ClassName: &student.ClassName,
		},
	}, nil
}

// AdminLogin authenticates the seeded admin account.
func (s *AuthService) AdminLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	admin, err := s.repo.FindAdminByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if admin == nil || !s.checkCredential(&admin.User, req.Password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, err := s.generateToken(&admin.User)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtCfg.Expiration.Seconds()),
		User: models.UserInfo{
			ID:       admin.ID,
			Username: admin.Username,
			Name:     admin.Name,
			Role:     admin.Role,
		},
	}, nil
}

// GetStudent fetches a student by id for authenticated flows; a miss is a
// not-found error here because the caller presented a valid token.
func (s *AuthService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return signed, nil
}

func (s *AuthService) storedSecret(plain string) (string, error) {
	if !s.authCfg.HashPasswords {
		return plain, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	return string(hashed), nil
}

func (s *AuthService) checkCredential(user *models.User, candidate string) bool {
	if s.authCfg.HashPasswords {
		return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
	}
	return user.ValidateCredential(candidate)
}
