package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/scope"
)

type ChamadaHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewChamadaHandler(db *gorm.DB, log *zap.Logger) *ChamadaHandler {
	return &ChamadaHandler{DB: db, Log: log}
}

type PresencaReq struct {
	Presente      bool   `json:"presente"`
	Justificativa string `json:"justificativa"`
	AtestadoID    string `json:"atestado_id"`
}

type ChamadaCreateReq struct {
	TurmaID         string                 `json:"turma_id" validate:"required"`
	Data            string                 `json:"data" validate:"required,datetime=2006-01-02"`
	Horario         string                 `json:"horario" validate:"required,datetime=15:04"`
	ObservacoesAula *string                `json:"observacoes_aula"`
	Presencas       map[string]PresencaReq `json:"presencas" validate:"required"`
}

// POST /attendance
//
// A chamada é do dia corrente, imutável depois de gravada, e única por
// (turma, data) — a pré-checagem evita o caso comum e o índice único do banco
// fecha a corrida.
func (h *ChamadaHandler) Create(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	var req ChamadaCreateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hoje := time.Now().Format("2006-01-02")
	if req.Data != hoje {
		if req.Data < hoje {
			return badRequest("Não é permitido registrar chamada de datas passadas")
		}
		return badRequest("Não é permitido registrar chamada de datas futuras")
	}

	var turma models.Turma
	if err := h.DB.First(&turma, "id = ?", req.TurmaID).Error; err != nil {
		return notFound("Turma não encontrada")
	}
	if !scope.ForUser(h.DB, cu).CanManageTurma(&turma) {
		return forbidden("Sem permissão para registrar chamada desta turma")
	}

	var existente models.Chamada
	if err := h.DB.Where("turma_id = ? AND data = ?", req.TurmaID, req.Data).
		First(&existente).Error; err == nil {
		return conflict("Chamada já registrada para esta turma nesta data")
	}

	// só alunos do roster entram na chamada
	agora := time.Now().Format("15:04")
	presencas := models.PresenceMap{}
	for alunoID, p := range req.Presencas {
		if !turma.TemAluno(alunoID) {
			return badRequest("Aluno não pertence à turma: " + alunoID)
		}
		registro := models.Presenca{
			Presente:      p.Presente,
			Justificativa: strings.TrimSpace(p.Justificativa),
			AtestadoID:    p.AtestadoID,
		}
		if p.Presente {
			registro.HoraRegistro = agora
		}
		presencas[alunoID] = registro
	}
	if len(presencas) == 0 {
		return badRequest("Chamada sem nenhum aluno")
	}

	presentes, faltas := presencas.Totais()
	chamada := models.Chamada{
		ID:              uuid.NewString(),
		TurmaID:         req.TurmaID,
		InstrutorID:     cu.ID,
		Data:            req.Data,
		Horario:         req.Horario,
		ObservacoesAula: req.ObservacoesAula,
		Presencas:       presencas,
		TotalPresentes:  presentes,
		TotalFaltas:     faltas,
	}

	if err := h.DB.Create(&chamada).Error; err != nil {
		// corrida perdida no índice único (turma_id, data)
		if strings.Contains(err.Error(), "idx_chamada_turma_data") ||
			strings.Contains(err.Error(), "duplicate key") {
			return conflict("Chamada já registrada para esta turma nesta data")
		}
		return internal(err.Error())
	}

	h.Log.Info("chamada registrada",
		zap.String("turma", turma.Nome),
		zap.String("data", chamada.Data),
		zap.String("por", cu.Email),
		zap.Int("presentes", presentes),
		zap.Int("faltas", faltas))

	return c.JSON(http.StatusCreated, chamada)
}

// GET /attendance/class/:turma_id?data_inicio=&data_fim=
func (h *ChamadaHandler) ListByTurma(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	var turma models.Turma
	if err := h.DB.First(&turma, "id = ?", c.Param("turma_id")).Error; err != nil {
		return notFound("Turma não encontrada")
	}
	if !scope.ForUser(h.DB, cu).CanManageTurma(&turma) {
		return forbidden("Sem permissão para ver chamadas desta turma")
	}

	tx := h.DB.Where("turma_id = ?", turma.ID)
	if inicio := c.QueryParam("data_inicio"); inicio != "" {
		tx = tx.Where("data >= ?", inicio)
	}
	if fim := c.QueryParam("data_fim"); fim != "" {
		tx = tx.Where("data <= ?", fim)
	}

	skip, limit := paginacao(c)
	var chamadas []models.Chamada
	if err := tx.Offset(skip).Limit(limit).Order("data DESC").Find(&chamadas).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, chamadas)
}
