package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles dentro del token
const (
	RoleUser   = "user"
	RoleSeller = "seller"
)

var ErrInvalidToken = errors.New("token inválido o expirado")

// Servicio de identidad: emite y valida los JWT que viajan en las cookies
// (`token` para usuarios, `seller_token` para tiendas). El alta de usuarios y
// tiendas vive en otro servicio; acá solo se verifica identidad.
type AuthService struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		ttl:    90 * 24 * time.Hour,
	}
}

func (a *AuthService) IssueToken(id primitive.ObjectID, role string) (string, error) {
	claims := jwt.MapClaims{
		"id":   id.Hex(),
		"role": role,
		"exp":  time.Now().Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken verifica firma, expiración y rol, y devuelve la identidad.
func (a *AuthService) ValidateToken(tokenString, wantRole string) (primitive.ObjectID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	if role != wantRole {
		return primitive.NilObjectID, ErrInvalidToken
	}

	rawID, _ := claims["id"].(string)
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return id, nil
}
