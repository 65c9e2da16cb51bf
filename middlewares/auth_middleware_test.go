package middlewares

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

const secret = "segredo-de-teste"

func TestSignEParseToken(t *testing.T) {
	u := &models.User{Email: "instrutor@escola.org", Tipo: models.TipoInstrutor}

	tok, err := SignToken(secret, u)
	require.NoError(t, err)

	claims, err := ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "instrutor@escola.org", claims.Subject)
	assert.Equal(t, models.TipoInstrutor, claims.Tipo)

	restante := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, restante, 23*time.Hour)
	assert.LessOrEqual(t, restante, TokenTTL)
}

func TestParseTokenSegredoErrado(t *testing.T) {
	tok, err := SignToken(secret, &models.User{Email: "a@b.c", Tipo: models.TipoAdmin})
	require.NoError(t, err)

	_, err = ParseToken("outro-segredo", tok)
	assert.Error(t, err)
}

func TestParseTokenExpirado(t *testing.T) {
	claims := Claims{
		Tipo: models.TipoAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@b.c",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseToken(secret, tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenAlgoritmoTrocado(t *testing.T) {
	// token "none" não passa
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "a@b.c"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(secret, tok)
	assert.Error(t, err)
}

func TestParseTokenLixo(t *testing.T) {
	_, err := ParseToken(secret, "nao.e.jwt")
	assert.Error(t, err)
}
