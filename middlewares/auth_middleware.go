package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

// ContextUserKey é onde o usuário autenticado fica pendurado no contexto.
const ContextUserKey = "current_user"

// Claims emitidos no login: sub = email, tipo = papel.
type Claims struct {
	Tipo string `json:"tipo"`
	jwt.RegisteredClaims
}

const TokenTTL = 24 * time.Hour

func SignToken(secret string, u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Tipo: u.Tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(secret))
}

func ParseToken(secret, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		// impede troca de algoritmo
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func extractBearer(c echo.Context) (string, error) {
	h := c.Request().Header.Get("Authorization")
	if h == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "MISSING_AUTH_HEADER"})
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_AUTH_HEADER"})
	}
	return parts[1], nil
}

// RequireAuth valida o JWT e resolve o usuário ativo pelo email do subject.
// Token de usuário removido/desativado vale tanto quanto token nenhum.
func RequireAuth(db *gorm.DB, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := extractBearer(c)
			if err != nil {
				return err
			}
			claims, err := ParseToken(secret, tok)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN"})
			}

			var user models.User
			if err := db.Where("email = ? AND ativo = ?", claims.Subject, true).First(&user).Error; err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "USER_NOT_FOUND"})
			}

			c.Set(ContextUserKey, &user)
			return next(c)
		}
	}
}

// CurrentUser lê o usuário deixado pelo RequireAuth.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(ContextUserKey).(*models.User)
	return u
}
