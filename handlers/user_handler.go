package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

type UserHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewUserHandler(db *gorm.DB, log *zap.Logger) *UserHandler {
	return &UserHandler{DB: db, Log: log}
}

type UserCreateReq struct {
	Nome      string  `json:"nome" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Tipo      string  `json:"tipo" validate:"required,oneof=admin instrutor pedagogo monitor"`
	UnidadeID *string `json:"unidade_id"`
	CursoID   *string `json:"curso_id"`
	Telefone  *string `json:"telefone"`
}

// POST /users — admin cria usuário; instrutor/pedagogo/monitor exigem vínculo
// com unidade e curso existentes.
func (h *UserHandler) Create(c echo.Context) error {
	var req UserCreateReq
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

	if req.Tipo == models.TipoInstrutor || req.Tipo == models.TipoPedagogo || req.Tipo == models.TipoMonitor {
		if req.UnidadeID == nil {
			return badRequest("Unidade é obrigatória para instrutores, pedagogos e monitores")
		}
		if req.CursoID == nil {
			return badRequest("Curso é obrigatório para instrutores, pedagogos e monitores")
		}
		var unidade models.Unidade
		if err := h.DB.Where("id = ? AND ativo = ?", *req.UnidadeID, true).First(&unidade).Error; err != nil {
			return badRequest("Unidade não encontrada")
		}
		var curso models.Curso
		if err := h.DB.Where("id = ? AND ativo = ?", *req.CursoID, true).First(&curso).Error; err != nil {
			return badRequest("Curso não encontrado")
		}
	}

	temp := tempPassword()
	hash, err := hashSenha(temp)
	if err != nil {
		return internal("falha ao gerar senha")
	}
	token := uuid.NewString()

	u := models.User{
		ID:               uuid.NewString(),
		Nome:             req.Nome,
		Email:            req.Email,
		Senha:            hash,
		Tipo:             req.Tipo,
		Ativo:            true,
		Status:           models.StatusPendente,
		PrimeiroAcesso:   true,
		TokenConfirmacao: &token,
		UnidadeID:        req.UnidadeID,
		CursoID:          req.CursoID,
		Telefone:         req.Telefone,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return badRequest(err.Error())
	}

	cu := middlewares.CurrentUser(c)
	h.Log.Info("usuário criado",
		zap.String("admin", cu.Email),
		zap.String("email", u.Email),
		zap.String("tipo", u.Tipo))

	return c.JSON(http.StatusCreated, map[string]any{"user": u, "temp_password": temp})
}

// GET /users?tipo=&status= — admin, instrutor e pedagogo podem listar.
func (h *UserHandler) List(c echo.Context) error {
	cu := middlewares.CurrentUser(c)
	if cu.Tipo != models.TipoAdmin && cu.Tipo != models.TipoInstrutor && cu.Tipo != models.TipoPedagogo {
		return forbidden("Acesso negado")
	}

	skip, limit := paginacao(c)
	tx := h.DB.Model(&models.User{})
	if tipo := c.QueryParam("tipo"); tipo != "" {
		tx = tx.Where("tipo = ?", tipo)
	}
	if status := c.QueryParam("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	var users []models.User
	if err := tx.Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// GET /users/pending
func (h *UserHandler) Pending(c echo.Context) error {
	var users []models.User
	if err := h.DB.Where("status = ?", models.StatusPendente).Limit(100).Find(&users).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

type UserUpdateReq struct {
	Nome      *string `json:"nome"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Telefone  *string `json:"telefone"`
	Ativo     *bool   `json:"ativo"`
	UnidadeID *string `json:"unidade_id"`
	CursoID   *string `json:"curso_id"`
}

// PUT /users/:id — merge parcial: só campos presentes são aplicados.
func (h *UserHandler) Update(c echo.Context) error {
	var req UserUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updates := map[string]any{}
	if req.Nome != nil {
		updates["nome"] = *req.Nome
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Telefone != nil {
		updates["telefone"] = *req.Telefone
	}
	if req.Ativo != nil {
		updates["ativo"] = *req.Ativo
	}
	if req.UnidadeID != nil {
		updates["unidade_id"] = *req.UnidadeID
	}
	if req.CursoID != nil {
		updates["curso_id"] = *req.CursoID
	}
	if len(updates) == 0 {
		return badRequest("Nenhum dado para atualizar")
	}

	res := h.DB.Model(&models.User{}).Where("id = ?", c.Param("id")).Updates(updates)
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Usuário não encontrado")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, u)
}

// PUT /users/:id/approve — pendente → ativo, com senha temporária nova.
func (h *UserHandler) Approve(c echo.Context) error {
	temp := tempPassword()
	hash, err := hashSenha(temp)
	if err != nil {
		return internal("falha ao gerar senha")
	}

	res := h.DB.Model(&models.User{}).Where("id = ?", c.Param("id")).
		Updates(map[string]any{"status": models.StatusAtivo, "senha": hash})
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Usuário não encontrado")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":       "Usuário aprovado com sucesso",
		"temp_password": temp,
	})
}

// POST /users/:id/reset-password — admin reseta e recebe a senha para
// repassar pessoalmente.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var u models.User
	if err := h.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
		return notFound("Usuário não encontrado")
	}

	temp := tempPassword()
	hash, err := hashSenha(temp)
	if err != nil {
		return internal("falha ao gerar senha")
	}
	if err := h.DB.Model(&u).
		Updates(map[string]any{"senha": hash, "primeiro_acesso": true}).Error; err != nil {
		return internal(err.Error())
	}

	cu := middlewares.CurrentUser(c)
	h.Log.Info("senha resetada pelo admin", zap.String("admin", cu.Email), zap.String("user", u.Email))

	return c.JSON(http.StatusOK, map[string]any{
		"message":       "Senha resetada com sucesso",
		"temp_password": temp,
		"user_email":    u.Email,
		"user_name":     u.Nome,
	})
}

// DELETE /users/:id — desativação; nunca remove a linha.
func (h *UserHandler) Delete(c echo.Context) error {
	res := h.DB.Model(&models.User{}).Where("id = ?", c.Param("id")).Update("ativo", false)
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Usuário não encontrado")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Usuário desativado com sucesso"})
}

// GET /users/:id/details — usuário + unidade e curso vinculados.
func (h *UserHandler) Details(c echo.Context) error {
	cu := middlewares.CurrentUser(c)
	id := c.Param("id")
	if cu.Tipo != models.TipoAdmin && cu.ID != id {
		return forbidden("Acesso negado")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", id).Error; err != nil {
		return notFound("Usuário não encontrado")
	}

	details := map[string]any{"user": u}
	if u.UnidadeID != nil {
		var unidade models.Unidade
		if err := h.DB.First(&unidade, "id = ?", *u.UnidadeID).Error; err == nil {
			details["unidade"] = unidade
		}
	}
	if u.CursoID != nil {
		var curso models.Curso
		if err := h.DB.First(&curso, "id = ?", *u.CursoID).Error; err == nil {
			details["curso"] = curso
		}
	}
	return c.JSON(http.StatusOK, details)
}
