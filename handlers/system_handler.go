package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

type SystemHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewSystemHandler(db *gorm.DB, log *zap.Logger) *SystemHandler {
	return &SystemHandler{DB: db, Log: log}
}

const (
	defaultAdminEmail = "admin@sistema.com"
	defaultAdminSenha = "admin123"
)

// GET /health
func (h *SystemHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

// POST /init — semeia o admin padrão. Idempotente: se já existe algum admin,
// não faz nada.
func (h *SystemHandler) Init(c echo.Context) error {
	var n int64
	if err := h.DB.Model(&models.User{}).Where("tipo = ?", models.TipoAdmin).Count(&n).Error; err != nil {
		return internal(err.Error())
	}
	if n > 0 {
		return c.JSON(http.StatusOK, map[string]any{
			"message": "Sistema já inicializado",
		})
	}

	hash, err := hashSenha(defaultAdminSenha)
	if err != nil {
		return internal("falha ao gerar senha")
	}

	admin := models.User{
		ID:             uuid.NewString(),
		Nome:           "Administrador",
		Email:          defaultAdminEmail,
		Senha:          hash,
		Tipo:           models.TipoAdmin,
		Ativo:          true,
		Status:         models.StatusAtivo,
		PrimeiroAcesso: true,
	}
	if err := h.DB.Create(&admin).Error; err != nil {
		return internal(err.Error())
	}

	h.Log.Info("admin padrão criado", zap.String("email", defaultAdminEmail))
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Sistema inicializado com sucesso",
		"email":   defaultAdminEmail,
	})
}
