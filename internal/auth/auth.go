package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
)

// Repository is the storage port the authenticator needs. Session writes
// that must be atomic (supersede-then-insert on login) are single calls so
// the store can wrap them in one transaction.
type Repository interface {
	CreateUser(u *usermodel.User) error
	GetUserByEmail(email string) (*usermodel.User, error)
	GetUserByID(id string) (*usermodel.User, error)

	// ReplaceSessions deletes all prior sessions for the session's user and
	// inserts the new row, atomically.
	ReplaceSessions(session *usermodel.Session) error
	GetSessionByToken(token string) (*usermodel.Session, error)
	DeleteSessionByToken(token string) error
}

// Claims are embedded in the session token for transport convenience. They
// are never trusted on their own: resolve always checks the session row.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenGenerator mints and parses session token strings.
type TokenGenerator interface {
	Generate(user *usermodel.User, issuedAt, expiresAt time.Time) (string, error)
	Parse(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret []byte
}

func NewJWTTokenGenerator(secret string) *JWTTokenGenerator {
	return &JWTTokenGenerator{Secret: []byte(secret)}
}

func (j *JWTTokenGenerator) Generate(user *usermodel.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrMalformedToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrMalformedToken
}

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrMalformedToken = errors.New("malformed token")
)
