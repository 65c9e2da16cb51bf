package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

type UnidadeHandler struct {
	DB *gorm.DB
}

func NewUnidadeHandler(db *gorm.DB) *UnidadeHandler {
	return &UnidadeHandler{DB: db}
}

type UnidadeCreateReq struct {
	Nome        string  `json:"nome" validate:"required"`
	Endereco    string  `json:"endereco" validate:"required"`
	Telefone    *string `json:"telefone"`
	Responsavel *string `json:"responsavel"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

// POST /units
func (h *UnidadeHandler) Create(c echo.Context) error {
	var req UnidadeCreateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u := models.Unidade{
		ID:          uuid.NewString(),
		Nome:        req.Nome,
		Endereco:    req.Endereco,
		Telefone:    req.Telefone,
		Responsavel: req.Responsavel,
		Email:       req.Email,
		Ativo:       true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return badRequest(err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

// GET /units — só unidades ativas; admin enxerga inativas com ?all=true.
func (h *UnidadeHandler) List(c echo.Context) error {
	tx := h.DB.Model(&models.Unidade{})
	if c.QueryParam("all") != "true" {
		tx = tx.Where("ativo = ?", true)
	}
	var unidades []models.Unidade
	if err := tx.Order("nome ASC").Find(&unidades).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, unidades)
}

type UnidadeUpdateReq struct {
	Nome        *string `json:"nome"`
	Endereco    *string `json:"endereco"`
	Telefone    *string `json:"telefone"`
	Responsavel *string `json:"responsavel"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

// PUT /units/:id
func (h *UnidadeHandler) Update(c echo.Context) error {
	var req UnidadeUpdateReq
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
	if req.Endereco != nil {
		updates["endereco"] = *req.Endereco
	}
	if req.Telefone != nil {
		updates["telefone"] = *req.Telefone
	}
	if req.Responsavel != nil {
		updates["responsavel"] = *req.Responsavel
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if len(updates) == 0 {
		return badRequest("Nenhum dado para atualizar")
	}

	res := h.DB.Model(&models.Unidade{}).Where("id = ?", c.Param("id")).Updates(updates)
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Unidade não encontrada")
	}

	var u models.Unidade
	if err := h.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, u)
}

// DELETE /units/:id — soft delete.
func (h *UnidadeHandler) Delete(c echo.Context) error {
	res := h.DB.Model(&models.Unidade{}).Where("id = ?", c.Param("id")).Update("ativo", false)
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Unidade não encontrada")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Unidade desativada com sucesso"})
}
