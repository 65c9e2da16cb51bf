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

type NotificationHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewNotificationHandler(db *gorm.DB, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{DB: db, Log: log}
}

var diasSemanaPT = map[time.Weekday]string{
	time.Monday:    "segunda",
	time.Tuesday:   "terca",
	time.Wednesday: "quarta",
	time.Thursday:  "quinta",
	time.Friday:    "sexta",
	time.Saturday:  "sabado",
	time.Sunday:    "domingo",
}

// ehDiaDeAula: a data cai em um dos dias de aula da turma?
func ehDiaDeAula(dia time.Time, diasSemana []string) bool {
	nome := diasSemanaPT[dia.Weekday()]
	for _, d := range diasSemana {
		if d == nome {
			return true
		}
	}
	return false
}

type pendingCall struct {
	TurmaID    string `json:"turma_id"`
	TurmaNome  string `json:"turma_nome"`
	Data       string `json:"data"`
	DiasAtraso int    `json:"dias_atraso"`
	Prioridade string `json:"prioridade"` // alta | media | baixa
	Horario    string `json:"horario"`
}

// GET /notifications/pending-calls
//
// Varre os últimos três dias letivos de cada turma do recorte e aponta as
// chamadas que ficaram sem registro. A de hoje é prioridade alta; quanto mais
// velha, menor a urgência.
func (h *NotificationHandler) PendingCalls(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	turmas, err := scope.ForUser(h.DB, cu).Turmas()
	if err != nil {
		return internal(err.Error())
	}

	agora := time.Now()
	prioridades := [3]string{"alta", "media", "baixa"}
	pendentes := []pendingCall{}

	for _, t := range turmas {
		for atraso := 0; atraso < 3; atraso++ {
			dia := agora.AddDate(0, 0, -atraso)
			data := dia.Format("2006-01-02")

			if !ehDiaDeAula(dia, t.DiasSemana) {
				continue
			}
			// fora do período letivo da turma
			if data < t.DataInicio || (t.DataFim != "" && data > t.DataFim) {
				continue
			}

			var n int64
			if err := h.DB.Model(&models.Chamada{}).
				Where("turma_id = ? AND data = ?", t.ID, data).
				Count(&n).Error; err != nil {
				return internal(err.Error())
			}
			if n > 0 {
				continue
			}

			pendentes = append(pendentes, pendingCall{
				TurmaID:    t.ID,
				TurmaNome:  t.Nome,
				Data:       data,
				DiasAtraso: atraso,
				Prioridade: prioridades[atraso],
				Horario:    t.HorarioInicio,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"pending_calls": pendentes,
		"total":         len(pendentes),
	})
}
