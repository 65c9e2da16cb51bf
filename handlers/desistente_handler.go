package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/scope"
)

type DesistenteHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewDesistenteHandler(db *gorm.DB, log *zap.Logger) *DesistenteHandler {
	return &DesistenteHandler{DB: db, Log: log}
}

type DesistenteCreateReq struct {
	AlunoID         string  `json:"aluno_id" validate:"required"`
	TurmaID         *string `json:"turma_id"`
	DataDesistencia string  `json:"data_desistencia" validate:"required,datetime=2006-01-02"`
	Motivo          string  `json:"motivo" validate:"required"`
	Observacoes     *string `json:"observacoes"`
}

// POST /dropouts — registra a desistência e muda o status do aluno. Monitor
// não registra; não-admin só para aluno dentro do próprio recorte.
func (h *DesistenteHandler) Create(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	var req DesistenteCreateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var aluno models.Aluno
	if err := h.DB.First(&aluno, "id = ?", req.AlunoID).Error; err != nil {
		return notFound("Aluno não encontrado")
	}

	if cu.Tipo != models.TipoAdmin {
		ok, err := scope.ForUser(h.DB, cu).CanSeeAluno(req.AlunoID)
		if err != nil {
			return internal(err.Error())
		}
		if !ok {
			return forbidden("Aluno fora do seu recorte")
		}
	}

	if req.TurmaID != nil {
		var turma models.Turma
		if err := h.DB.First(&turma, "id = ?", *req.TurmaID).Error; err != nil {
			return notFound("Turma não encontrada")
		}
	}

	desistente := models.Desistente{
		ID:              uuid.NewString(),
		AlunoID:         req.AlunoID,
		TurmaID:         req.TurmaID,
		DataDesistencia: req.DataDesistencia,
		Motivo:          req.Motivo,
		Observacoes:     req.Observacoes,
		RegistradoPor:   cu.ID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&desistente).Error; err != nil {
			return err
		}
		return tx.Model(&models.Aluno{}).Where("id = ?", aluno.ID).
			Update("status", models.AlunoDesistente).Error
	})
	if err != nil {
		return internal(err.Error())
	}

	h.Log.Info("desistência registrada",
		zap.String("aluno", aluno.Nome),
		zap.String("por", cu.Email))

	return c.JSON(http.StatusCreated, desistente)
}

// GET /dropouts?turma_id= — mesmo recorte da criação: não-admin só enxerga
// desistência de aluno visível (roster de turma do recorte) ou de turma do
// recorte.
func (h *DesistenteHandler) List(c echo.Context) error {
	cu := middlewares.CurrentUser(c)
	sc := scope.ForUser(h.DB, cu)

	tx := h.DB.Model(&models.Desistente{})
	if turmaID := c.QueryParam("turma_id"); turmaID != "" {
		tx = tx.Where("turma_id = ?", turmaID)
	}

	if !sc.Filter.All {
		turmas, err := sc.Turmas()
		if err != nil {
			return internal(err.Error())
		}
		turmaIDs := make([]string, 0, len(turmas))
		for _, t := range turmas {
			turmaIDs = append(turmaIDs, t.ID)
		}
		alunoIDs := scope.AlunoIDs(turmas)
		if len(turmaIDs) == 0 && len(alunoIDs) == 0 {
			return c.JSON(http.StatusOK, []models.Desistente{})
		}
		tx = tx.Where("turma_id IN ? OR aluno_id IN ?", turmaIDs, alunoIDs)
	}

	skip, limit := paginacao(c)
	var desistentes []models.Desistente
	if err := tx.Offset(skip).Limit(limit).Order("data_desistencia DESC").
		Find(&desistentes).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, desistentes)
}
