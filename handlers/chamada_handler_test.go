package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

func chamadaBody(turmaID, data string, presencas map[string]PresencaReq) string {
	b, _ := json.Marshal(ChamadaCreateReq{
		TurmaID:   turmaID,
		Data:      data,
		Horario:   "08:00",
		Presencas: presencas,
	})
	return string(b)
}

func TestChamadaCreateRejeitaDataPassadaEFutura(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewChamadaHandler(db, zap.NewNop())

	presencas := map[string]PresencaReq{esc.alunos[0].ID: {Presente: true}}

	ontem := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	c, _ := authCtx(&esc.instrutor, http.MethodPost, "/attendance", chamadaBody(esc.turma.ID, ontem, presencas))
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.Create(c)))

	amanha := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	c, _ = authCtx(&esc.instrutor, http.MethodPost, "/attendance", chamadaBody(esc.turma.ID, amanha, presencas))
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.Create(c)))

	var n int64
	require.NoError(t, db.Model(&models.Chamada{}).Count(&n).Error)
	assert.Zero(t, n, "nenhuma chamada fora do dia corrente pode ser gravada")
}

func TestChamadaCreateDuplicadaConflita(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewChamadaHandler(db, zap.NewNop())

	hoje := time.Now().Format("2006-01-02")
	presencas := map[string]PresencaReq{esc.alunos[0].ID: {Presente: true}}

	c, rec := authCtx(&esc.instrutor, http.MethodPost, "/attendance", chamadaBody(esc.turma.ID, hoje, presencas))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, _ = authCtx(&esc.instrutor, http.MethodPost, "/attendance", chamadaBody(esc.turma.ID, hoje, presencas))
	assert.Equal(t, http.StatusConflict, httpStatus(t, h.Create(c)))

	var n int64
	require.NoError(t, db.Model(&models.Chamada{}).Where("turma_id = ?", esc.turma.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestChamadaCreateMonitorDaUnidade(t *testing.T) {
	// monitor registra chamada de turma da própria unidade
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewChamadaHandler(db, zap.NewNop())

	hoje := time.Now().Format("2006-01-02")
	presencas := map[string]PresencaReq{esc.alunos[0].ID: {Presente: true}}

	c, rec := authCtx(&esc.monitorA, http.MethodPost, "/attendance", chamadaBody(esc.turma.ID, hoje, presencas))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestChamadaCreateForaDoRecorte(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewChamadaHandler(db, zap.NewNop())

	hoje := time.Now().Format("2006-01-02")
	presencas := map[string]PresencaReq{esc.alunos[0].ID: {Presente: true}}

	c, _ := authCtx(&esc.monitorB, http.MethodPost, "/attendance", chamadaBody(esc.turma.ID, hoje, presencas))
	assert.Equal(t, http.StatusForbidden, httpStatus(t, h.Create(c)))
}

func TestChamadaCreateMarcaHoraRegistroSoParaPresentes(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewChamadaHandler(db, zap.NewNop())

	hoje := time.Now().Format("2006-01-02")
	presencas := map[string]PresencaReq{
		esc.alunos[0].ID: {Presente: true},
		esc.alunos[1].ID: {Presente: false, Justificativa: "atestado"},
	}

	c, rec := authCtx(&esc.instrutor, http.MethodPost, "/attendance", chamadaBody(esc.turma.ID, hoje, presencas))
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var ch models.Chamada
	require.NoError(t, db.First(&ch, "turma_id = ?", esc.turma.ID).Error)
	assert.Equal(t, 1, ch.TotalPresentes)
	assert.Equal(t, 1, ch.TotalFaltas)
	assert.NotEmpty(t, ch.Presencas[esc.alunos[0].ID].HoraRegistro)
	assert.Empty(t, ch.Presencas[esc.alunos[1].ID].HoraRegistro)
}

func TestChamadaCreateAlunoForaDoRoster(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewChamadaHandler(db, zap.NewNop())

	hoje := time.Now().Format("2006-01-02")
	body := fmt.Sprintf(`{"turma_id":%q,"data":%q,"horario":"08:00","presencas":{"id-inexistente":{"presente":true}}}`,
		esc.turma.ID, hoje)

	c, _ := authCtx(&esc.instrutor, http.MethodPost, "/attendance", body)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.Create(c)))
}
