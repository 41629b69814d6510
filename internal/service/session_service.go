package service

import (
	"context"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/auth"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/repository"
)

// SessionService шлюз сессий: вход, выход, проверка токена.
// Состояния сессии: anonymous -> authenticated(role) -> anonymous.
type SessionService struct {
	users    *UserService
	issuer   *auth.TokenIssuer
	sessions repository.SessionRepository
}

func NewSessionService(users *UserService, issuer *auth.TokenIssuer, sessions repository.SessionRepository) *SessionService {
	return &SessionService{users: users, issuer: issuer, sessions: sessions}
}

// Login проверяет учётные данные и выпускает токен
func (s *SessionService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.issuer.Issue(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Logout отзывает токен, если он валиден. Идемпотентен: повторный вызов
// и вызов без токена не являются ошибкой.
func (s *SessionService) Logout(ctx context.Context, rawToken string) {
	if rawToken == "" {
		return
	}
	sess, err := s.issuer.Parse(rawToken)
	if err != nil {
		return
	}
	_ = s.sessions.Revoke(ctx, sess.JTI)
}

// Verify проверяет подпись, срок и отзыв токена
func (s *SessionService) Verify(ctx context.Context, rawToken string) (*auth.Session, error) {
	sess, err := s.issuer.Parse(rawToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.sessions.IsRevoked(ctx, sess.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, auth.ErrInvalidToken
	}
	return sess, nil
}
