package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/scope"
)

type DashboardHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewDashboardHandler(db *gorm.DB, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{DB: db, Log: log}
}

// GET /dashboard/stats — números do painel, sempre dentro do recorte do
// papel: admin vê o sistema inteiro, instrutor só as próprias turmas,
// pedagogo/monitor a unidade.
func (h *DashboardHandler) Stats(c echo.Context) error {
	cu := middlewares.CurrentUser(c)
	sc := scope.ForUser(h.DB, cu)

	turmas, err := sc.Turmas()
	if err != nil {
		return internal(err.Error())
	}
	turmaIDs := make([]string, 0, len(turmas))
	for _, t := range turmas {
		turmaIDs = append(turmaIDs, t.ID)
	}

	var totalAlunos, alunosDesistentes int64
	if sc.Filter.All {
		if err := h.DB.Model(&models.Aluno{}).Where("ativo = ?", true).Count(&totalAlunos).Error; err != nil {
			return internal(err.Error())
		}
		if err := h.DB.Model(&models.Aluno{}).Where("status = ?", models.AlunoDesistente).
			Count(&alunosDesistentes).Error; err != nil {
			return internal(err.Error())
		}
	} else {
		ids := scope.AlunoIDs(turmas)
		totalAlunos = int64(len(ids))
		if len(ids) > 0 {
			if err := h.DB.Model(&models.Aluno{}).
				Where("id IN ? AND status = ?", ids, models.AlunoDesistente).
				Count(&alunosDesistentes).Error; err != nil {
				return internal(err.Error())
			}
		}
	}

	hoje := time.Now().Format("2006-01-02")
	inicioMes := time.Now().Format("2006-01") + "-01"

	var chamadasHoje int64
	var chamadasMes []models.Chamada
	if len(turmaIDs) > 0 {
		if err := h.DB.Model(&models.Chamada{}).
			Where("turma_id IN ? AND data = ?", turmaIDs, hoje).
			Count(&chamadasHoje).Error; err != nil {
			return internal(err.Error())
		}
		if err := h.DB.Where("turma_id IN ? AND data >= ?", turmaIDs, inicioMes).
			Find(&chamadasMes).Error; err != nil {
			return internal(err.Error())
		}
	}

	presencasMes, faltasMes := 0, 0
	for _, ch := range chamadasMes {
		presencasMes += ch.TotalPresentes
		faltasMes += ch.TotalFaltas
	}
	taxaMes := 0.0
	if total := presencasMes + faltasMes; total > 0 {
		taxaMes = arredonda1(float64(presencasMes) / float64(total) * 100)
	}

	stats := map[string]any{
		"tipo_usuario":       cu.Tipo,
		"total_turmas":       len(turmas),
		"total_alunos":       totalAlunos,
		"alunos_desistentes": alunosDesistentes,
		"chamadas_hoje":      chamadasHoje,
		"presencas_mes":      presencasMes,
		"faltas_mes":         faltasMes,
		"taxa_presenca_mes":  taxaMes,
	}

	// admin ganha os totais de cadastro do sistema
	if cu.Tipo == models.TipoAdmin {
		var totalUsuarios, totalUnidades, totalCursos, usuariosPendentes int64
		if err := h.DB.Model(&models.User{}).Where("status = ?", models.StatusAtivo).Count(&totalUsuarios).Error; err != nil {
			return internal(err.Error())
		}
		if err := h.DB.Model(&models.User{}).Where("status = ?", models.StatusPendente).Count(&usuariosPendentes).Error; err != nil {
			return internal(err.Error())
		}
		if err := h.DB.Model(&models.Unidade{}).Where("ativo = ?", true).Count(&totalUnidades).Error; err != nil {
			return internal(err.Error())
		}
		if err := h.DB.Model(&models.Curso{}).Where("ativo = ?", true).Count(&totalCursos).Error; err != nil {
			return internal(err.Error())
		}
		stats["total_usuarios"] = totalUsuarios
		stats["usuarios_pendentes"] = usuariosPendentes
		stats["total_unidades"] = totalUnidades
		stats["total_cursos"] = totalCursos
	}

	return c.JSON(http.StatusOK, stats)
}
