package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/scope"
)

type TurmaHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewTurmaHandler(db *gorm.DB, log *zap.Logger) *TurmaHandler {
	return &TurmaHandler{DB: db, Log: log}
}

type TurmaCreateReq struct {
	Nome          string   `json:"nome" validate:"required"`
	UnidadeID     string   `json:"unidade_id" validate:"required"`
	CursoID       string   `json:"curso_id" validate:"required"`
	InstrutorID   string   `json:"instrutor_id"`
	PedagogoID    *string  `json:"pedagogo_id"`
	MonitorID     *string  `json:"monitor_id"`
	DataInicio    string   `json:"data_inicio" validate:"required,datetime=2006-01-02"`
	DataFim       string   `json:"data_fim" validate:"required,datetime=2006-01-02"`
	HorarioInicio string   `json:"horario_inicio" validate:"required,datetime=15:04"`
	HorarioFim    string   `json:"horario_fim" validate:"required,datetime=15:04"`
	DiasSemana    []string `json:"dias_semana" validate:"required,min=1,dive,oneof=segunda terca quarta quinta sexta sabado domingo"`
	VagasTotal    int      `json:"vagas_total"`
	Ciclo         *string  `json:"ciclo"`
}

// POST /classes — admin cria qualquer turma; instrutor só do próprio
// curso/unidade (e vira o instrutor dela).
func (h *TurmaHandler) Create(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	var req TurmaCreateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	switch cu.Tipo {
	case models.TipoAdmin:
		if req.InstrutorID == "" {
			return badRequest("Instrutor é obrigatório")
		}
		var instrutor models.User
		if err := h.DB.Where("id = ? AND tipo = ? AND status = ?",
			req.InstrutorID, models.TipoInstrutor, models.StatusAtivo).First(&instrutor).Error; err != nil {
			return badRequest("Instrutor não encontrado ou inativo")
		}
	case models.TipoInstrutor:
		if cu.CursoID == nil || cu.UnidadeID == nil {
			return badRequest("Instrutor deve estar associado a um curso e unidade")
		}
		if req.CursoID != *cu.CursoID {
			return forbidden("Instrutor só pode criar turmas do seu curso")
		}
		if req.UnidadeID != *cu.UnidadeID {
			return forbidden("Instrutor só pode criar turmas da sua unidade")
		}
		req.InstrutorID = cu.ID
	default:
		return forbidden("Apenas admins e instrutores podem criar turmas")
	}

	var curso models.Curso
	if err := h.DB.Where("id = ? AND ativo = ?", req.CursoID, true).First(&curso).Error; err != nil {
		return badRequest("Curso não encontrado")
	}
	var unidade models.Unidade
	if err := h.DB.Where("id = ? AND ativo = ?", req.UnidadeID, true).First(&unidade).Error; err != nil {
		return badRequest("Unidade não encontrada")
	}

	if req.VagasTotal <= 0 {
		req.VagasTotal = 30
	}

	turma := models.Turma{
		ID:            uuid.NewString(),
		Nome:          req.Nome,
		UnidadeID:     req.UnidadeID,
		CursoID:       req.CursoID,
		InstrutorID:   req.InstrutorID,
		PedagogoID:    req.PedagogoID,
		MonitorID:     req.MonitorID,
		AlunosIDs:     []string{},
		DataInicio:    req.DataInicio,
		DataFim:       req.DataFim,
		HorarioInicio: req.HorarioInicio,
		HorarioFim:    req.HorarioFim,
		DiasSemana:    req.DiasSemana,
		VagasTotal:    req.VagasTotal,
		VagasOcupadas: 0,
		Ciclo:         req.Ciclo,
		Ativo:         true,
	}
	if err := h.DB.Create(&turma).Error; err != nil {
		return badRequest(err.Error())
	}
	return c.JSON(http.StatusCreated, turma)
}

// GET /classes — recorte via resolvedor de escopo.
func (h *TurmaHandler) List(c echo.Context) error {
	cu := middlewares.CurrentUser(c)
	turmas, err := scope.ForUser(h.DB, cu).Turmas()
	if err != nil {
		return internal(err.Error())
	}
	if turmas == nil {
		turmas = []models.Turma{}
	}
	return c.JSON(http.StatusOK, turmas)
}

type TurmaUpdateReq struct {
	Nome          *string  `json:"nome"`
	DataInicio    *string  `json:"data_inicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim       *string  `json:"data_fim" validate:"omitempty,datetime=2006-01-02"`
	HorarioInicio *string  `json:"horario_inicio" validate:"omitempty,datetime=15:04"`
	HorarioFim    *string  `json:"horario_fim" validate:"omitempty,datetime=15:04"`
	DiasSemana    []string `json:"dias_semana" validate:"omitempty,dive,oneof=segunda terca quarta quinta sexta sabado domingo"`
	VagasTotal    *int     `json:"vagas_total" validate:"omitempty,gt=0"`
}

// PUT /classes/:id
func (h *TurmaHandler) Update(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	var turma models.Turma
	if err := h.DB.First(&turma, "id = ?", c.Param("id")).Error; err != nil {
		return notFound("Turma não encontrada")
	}
	if !scope.ForUser(h.DB, cu).CanManageTurma(&turma) {
		return forbidden("Acesso negado: turma fora do seu recorte")
	}

	var req TurmaUpdateReq
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
	if req.DataInicio != nil {
		updates["data_inicio"] = *req.DataInicio
	}
	if req.DataFim != nil {
		updates["data_fim"] = *req.DataFim
	}
	if req.HorarioInicio != nil {
		updates["horario_inicio"] = *req.HorarioInicio
	}
	if req.HorarioFim != nil {
		updates["horario_fim"] = *req.HorarioFim
	}
	if len(req.DiasSemana) > 0 {
		updates["dias_semana"] = pqArray(req.DiasSemana)
	}
	if req.VagasTotal != nil {
		if *req.VagasTotal < len(turma.AlunosIDs) {
			return badRequest(fmt.Sprintf("Turma já tem %d alunos matriculados", len(turma.AlunosIDs)))
		}
		updates["vagas_total"] = *req.VagasTotal
	}
	if len(updates) == 0 {
		return badRequest("Nenhum dado para atualizar")
	}

	if err := h.DB.Model(&turma).Updates(updates).Error; err != nil {
		return internal(err.Error())
	}
	if err := h.DB.First(&turma, "id = ?", turma.ID).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, turma)
}

// DELETE /classes/:id — única remoção física do sistema, e só com a turma
// vazia e sem chamadas registradas.
func (h *TurmaHandler) Delete(c echo.Context) error {
	var turma models.Turma
	if err := h.DB.First(&turma, "id = ?", c.Param("id")).Error; err != nil {
		return notFound("Turma não encontrada")
	}

	if len(turma.AlunosIDs) > 0 {
		return badRequest(fmt.Sprintf(
			"Não é possível deletar turma com %d aluno(s) matriculado(s). Remova os alunos primeiro.",
			len(turma.AlunosIDs)))
	}

	var chamadas int64
	if err := h.DB.Model(&models.Chamada{}).Where("turma_id = ?", turma.ID).Count(&chamadas).Error; err != nil {
		return internal(err.Error())
	}
	if chamadas > 0 {
		return badRequest(fmt.Sprintf(
			"Não é possível deletar turma com %d chamada(s) registrada(s). Histórico de presença será perdido.",
			chamadas))
	}

	if err := h.DB.Delete(&turma).Error; err != nil {
		return internal(err.Error())
	}

	cu := middlewares.CurrentUser(c)
	h.Log.Info("turma deletada", zap.String("admin", cu.Email), zap.String("turma", turma.Nome))

	return c.JSON(http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Turma '%s' deletada com sucesso", turma.Nome),
	})
}

// PUT /classes/:id/students/:aluno_id — matrícula com checagem de capacidade.
func (h *TurmaHandler) AddAluno(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	var turma models.Turma
	if err := h.DB.First(&turma, "id = ?", c.Param("id")).Error; err != nil {
		return notFound("Turma não encontrada")
	}
	if !scope.ForUser(h.DB, cu).CanManageTurma(&turma) {
		return forbidden("Acesso negado: turma fora do seu recorte")
	}

	alunoID := c.Param("aluno_id")
	var aluno models.Aluno
	if err := h.DB.Where("id = ? AND ativo = ?", alunoID, true).First(&aluno).Error; err != nil {
		return notFound("Aluno não encontrado")
	}

	if err := turma.AddAluno(alunoID); err != nil {
		switch {
		case errors.Is(err, models.ErrTurmaLotada):
			return badRequest("Turma está lotada")
		case errors.Is(err, models.ErrAlunoJaNaTurma):
			return badRequest("Aluno já está na turma")
		default:
			return badRequest(err.Error())
		}
	}

	if err := h.DB.Model(&turma).Updates(map[string]any{
		"alunos_ids":     turma.AlunosIDs,
		"vagas_ocupadas": turma.VagasOcupadas,
	}).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Aluno adicionado à turma"})
}

// DELETE /classes/:id/students/:aluno_id
func (h *TurmaHandler) RemoveAluno(c echo.Context) error {
	var turma models.Turma
	if err := h.DB.First(&turma, "id = ?", c.Param("id")).Error; err != nil {
		return notFound("Turma não encontrada")
	}

	if err := turma.RemoveAluno(c.Param("aluno_id")); err != nil {
		return badRequest("Aluno não está na turma")
	}

	if err := h.DB.Model(&turma).Updates(map[string]any{
		"alunos_ids":     turma.AlunosIDs,
		"vagas_ocupadas": turma.VagasOcupadas,
	}).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Aluno removido da turma"})
}

// GET /classes/:id/students — expande o roster, só para quem enxerga a turma.
func (h *TurmaHandler) Students(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	var turma models.Turma
	if err := h.DB.First(&turma, "id = ?", c.Param("id")).Error; err != nil {
		return notFound("Turma não encontrada")
	}
	if !scope.ForUser(h.DB, cu).CanManageTurma(&turma) {
		return forbidden("Acesso negado: turma fora do seu recorte")
	}
	if len(turma.AlunosIDs) == 0 {
		return c.JSON(http.StatusOK, []models.Aluno{})
	}

	var alunos []models.Aluno
	if err := h.DB.Where("id IN ? AND ativo = ?", []string(turma.AlunosIDs), true).
		Order("nome ASC").Find(&alunos).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, alunos)
}
