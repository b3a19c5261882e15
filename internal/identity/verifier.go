// Package identity реализует проверку токена идентификации, предъявляемого клиентом.
//
// Claims расширяет стандартные claims JWT полями email и name.
// Интерфейс Verifier отделяет движок принятия решений от конкретного
// провайдера идентификации: обработчикам важны только email и имя,
// криптография остается за реализацией.
package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает данные пользователя, хранящиеся в токене идентификации.
type Claims struct {
	Email                string `json:"email"` // Электронная почта пользователя
	Name                 string `json:"name"`  // Отображаемое имя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Verifier описывает интерфейс проверки токена идентификации.
type Verifier interface {
	// Verify проверяет подпись и срок действия токена и возвращает его claims.
	Verify(tokenStr string) (*Claims, error)
}

// JWTVerifier проверяет JWT токены, подписанные общим секретным ключом.
type JWTVerifier struct {
	secretKey string
}

// NewJWTVerifier создает JWTVerifier с указанным секретным ключом.
func NewJWTVerifier(secretKey string) *JWTVerifier {
	return &JWTVerifier{secretKey: secretKey}
}

// Verify парсит JWT токен, проверяет его подпись и валидность,
// возвращает Claims с данными, если токен корректен.
func (v *JWTVerifier) Verify(tokenStr string) (*Claims, error) {
	const op = "identity.Verify"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(v.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
