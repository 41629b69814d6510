package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
)

// ErrInvalidToken возвращается на любой непригодный токен: подпись,
// срок, формат. Детали наружу не раскрываются.
var ErrInvalidToken = errors.New("invalid or expired token")

// Session распакованные клеймы действующего токена
type Session struct {
	Email string
	Name  string
	Role  domain.Role
	JTI   string
}

// TokenIssuer выпускает и проверяет подписанные HS256 токены сессий
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue выпускает токен для пользователя; jti уникален на каждый выпуск
func (t *TokenIssuer) Issue(u *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": u.Email,
		"name":  u.Name,
		"role":  string(u.Role),
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse проверяет подпись и срок действия и возвращает сессию
func (t *TokenIssuer) Parse(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	s := &Session{}
	if v, ok := claims["email"].(string); ok {
		s.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		s.Name = v
	}
	if v, ok := claims["role"].(string); ok {
		s.Role = domain.Role(v)
	}
	if v, ok := claims["jti"].(string); ok {
		s.JTI = v
	}
	if s.Email == "" || s.JTI == "" || !s.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return s, nil
}
