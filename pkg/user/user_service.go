package user

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/pkg/jwt"
	"context"
	"errors"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"strings"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		autoRegister   bool
	}
)

// NewUserService builds the admin account service. With autoRegister set,
// a login for an unknown email creates that account instead of failing.
func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, autoRegister bool) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		autoRegister:   autoRegister,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	user, err := s.createUser(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	registered := false

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && s.autoRegister:
		name, _, _ := strings.Cut(email, "@")
		user, err = s.createUser(ctx, name, email, req.Password)
		if err != nil {
			return domain.LoginResponse{}, err
		}
		registered = true
		log.Infof("created account for %s on first sign-in", email)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	case err != nil:
		return domain.LoginResponse{}, err
	default:
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		Token:      token,
		Role:       user.Role,
		Registered: registered,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// createUser makes the first account an admin and every later one a cashier.
func (s *userService) createUser(ctx context.Context, name, email, password string) (*entities.User, error) {
	email = normalizeEmail(email)

	_, err := s.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	count, err := s.userRepository.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	role := domain.RoleCashier
	if count == 0 {
		role = domain.RoleAdmin
	}

	user := &entities.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
