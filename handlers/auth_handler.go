package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

type AuthHandler struct {
	DB        *gorm.DB
	Log       *zap.Logger
	JWTSecret string
}

func NewAuthHandler(db *gorm.DB, log *zap.Logger, secret string) *AuthHandler {
	return &AuthHandler{DB: db, Log: log, JWTSecret: secret}
}

// senha temporária: primeiros 8 chars de um uuid
func tempPassword() string {
	return uuid.NewString()[:8]
}

func hashSenha(s string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	return string(h), err
}

type LoginReq struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var u models.User
	if err := h.DB.Where("email = ?", req.Email).First(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "Email ou senha incorretos"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Senha), []byte(req.Senha)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "Email ou senha incorretos"})
	}
	if !u.Ativo {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "Usuário inativo"})
	}
	if u.Status == models.StatusPendente {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "Usuário aguardando aprovação do administrador"})
	}

	now := time.Now().UTC()
	if err := h.DB.Model(&u).Update("last_login", now).Error; err != nil {
		h.Log.Warn("falha ao gravar last_login", zap.String("user", u.ID), zap.Error(err))
	}
	u.LastLogin = &now

	token, err := middlewares.SignToken(h.JWTSecret, &u)
	if err != nil {
		return internal("falha ao gerar token")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         u,
	})
}

type FirstAccessReq struct {
	Nome  string `json:"nome" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Tipo  string `json:"tipo" validate:"required,oneof=admin instrutor pedagogo monitor"`
}

// POST /auth/first-access — auto-cadastro; entra pendente até o admin aprovar.
func (h *AuthHandler) FirstAccess(c echo.Context) error {
	var req FirstAccessReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var dup models.User
	if err := h.DB.Where("email = ?", req.Email).First(&dup).Error; err == nil {
		return badRequest("Email já cadastrado")
	}

	temp := tempPassword()
	hash, err := hashSenha(temp)
	if err != nil {
		return internal("falha ao gerar senha")
	}

	u := models.User{
		ID:             uuid.NewString(),
		Nome:           req.Nome,
		Email:          req.Email,
		Senha:          hash,
		Tipo:           req.Tipo,
		Ativo:          true,
		Status:         models.StatusPendente,
		PrimeiroAcesso: true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return badRequest(err.Error())
	}

	h.Log.Info("solicitação de acesso criada", zap.String("email", req.Email), zap.String("tipo", req.Tipo))
	return c.JSON(http.StatusOK, map[string]any{
		"message":       "Solicitação de acesso enviada com sucesso",
		"temp_password": temp,
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middlewares.CurrentUser(c))
}

type ChangePasswordReq struct {
	SenhaAtual string `json:"senha_atual" validate:"required"`
	NovaSenha  string `json:"nova_senha" validate:"required,min=6"`
}

// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	var req ChangePasswordReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(cu.Senha), []byte(req.SenhaAtual)) != nil {
		return badRequest("Senha atual incorreta")
	}

	hash, err := hashSenha(req.NovaSenha)
	if err != nil {
		return internal("falha ao gerar senha")
	}
	if err := h.DB.Model(&models.User{}).Where("id = ?", cu.ID).
		Updates(map[string]any{"senha": hash, "primeiro_acesso": false}).Error; err != nil {
		return internal(err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{"message": "Senha alterada com sucesso"})
}

type ResetRequestReq struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /auth/reset-password-request — nunca revela se o email existe.
func (h *AuthHandler) ResetPasswordRequest(c echo.Context) error {
	var req ResetRequestReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var u models.User
	if err := h.DB.Where("email = ?", req.Email).First(&u).Error; err == nil {
		temp := tempPassword()
		if hash, err := hashSenha(temp); err == nil {
			if err := h.DB.Model(&u).
				Updates(map[string]any{"senha": hash, "primeiro_acesso": true}).Error; err == nil {
				h.Log.Info("senha temporária emitida", zap.String("email", u.Email))
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Se o email estiver cadastrado, uma nova senha será enviada",
	})
}
