package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

type CursoHandler struct {
	DB *gorm.DB
}

func NewCursoHandler(db *gorm.DB) *CursoHandler {
	return &CursoHandler{DB: db}
}

type CursoCreateReq struct {
	Nome          string   `json:"nome" validate:"required"`
	Descricao     *string  `json:"descricao"`
	CargaHoraria  int      `json:"carga_horaria" validate:"required,gt=0"`
	Categoria     *string  `json:"categoria"`
	PreRequisitos *string  `json:"pre_requisitos"`
	DiasAula      []string `json:"dias_aula" validate:"omitempty,dive,oneof=segunda terca quarta quinta sexta sabado domingo"`
}

// POST /courses
func (h *CursoHandler) Create(c echo.Context) error {
	var req CursoCreateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dias := req.DiasAula
	if len(dias) == 0 {
		dias = models.DiasAulaPadrao
	}

	curso := models.Curso{
		ID:            uuid.NewString(),
		Nome:          req.Nome,
		Descricao:     req.Descricao,
		CargaHoraria:  req.CargaHoraria,
		Categoria:     req.Categoria,
		PreRequisitos: req.PreRequisitos,
		DiasAula:      dias,
		Ativo:         true,
	}
	if err := h.DB.Create(&curso).Error; err != nil {
		return badRequest(err.Error())
	}
	return c.JSON(http.StatusCreated, curso)
}

// GET /courses
func (h *CursoHandler) List(c echo.Context) error {
	tx := h.DB.Model(&models.Curso{})
	if c.QueryParam("all") != "true" {
		tx = tx.Where("ativo = ?", true)
	}
	var cursos []models.Curso
	if err := tx.Order("nome ASC").Find(&cursos).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, cursos)
}

type CursoUpdateReq struct {
	Nome          *string  `json:"nome"`
	Descricao     *string  `json:"descricao"`
	CargaHoraria  *int     `json:"carga_horaria" validate:"omitempty,gt=0"`
	Categoria     *string  `json:"categoria"`
	PreRequisitos *string  `json:"pre_requisitos"`
	DiasAula      []string `json:"dias_aula" validate:"omitempty,dive,oneof=segunda terca quarta quinta sexta sabado domingo"`
}

// PUT /courses/:id
func (h *CursoHandler) Update(c echo.Context) error {
	var req CursoUpdateReq
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
	if req.Descricao != nil {
		updates["descricao"] = *req.Descricao
	}
	if req.CargaHoraria != nil {
		updates["carga_horaria"] = *req.CargaHoraria
	}
	if req.Categoria != nil {
		updates["categoria"] = *req.Categoria
	}
	if req.PreRequisitos != nil {
		updates["pre_requisitos"] = *req.PreRequisitos
	}
	if len(req.DiasAula) > 0 {
		updates["dias_aula"] = pqArray(req.DiasAula)
	}
	if len(updates) == 0 {
		return badRequest("Nenhum dado para atualizar")
	}

	res := h.DB.Model(&models.Curso{}).Where("id = ?", c.Param("id")).Updates(updates)
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Curso não encontrado")
	}

	var curso models.Curso
	if err := h.DB.First(&curso, "id = ?", c.Param("id")).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, curso)
}

// DELETE /courses/:id — soft delete.
func (h *CursoHandler) Delete(c echo.Context) error {
	res := h.DB.Model(&models.Curso{}).Where("id = ?", c.Param("id")).Update("ativo", false)
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Curso não encontrado")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Curso desativado com sucesso"})
}
