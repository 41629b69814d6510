package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/repository"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRole        = errors.New("role must be farmer or buyer")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash хэш заведомо несуществующего пароля; сравнение с ним
// выравнивает время ответа для незнакомых email
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("smart-agro-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// UserService регистрация и проверка учётных данных
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register создаёт пользователя; пароль хранится только как bcrypt-хэш
func (s *UserService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate возвращает пользователя по паре email/пароль. Ответ одинаков
// для незнакомого email и неверного пароля.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// сравнение с фиктивным хэшем, чтобы не выдать отсутствие пользователя по времени
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
