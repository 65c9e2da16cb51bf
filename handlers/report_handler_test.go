package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		nome          string
		presente      bool
		horaRegistro  string
		horaInicio    string
		justificativa string
		want          string
	}{
		{"presente no horário", true, "07:55", "08:00", "", "Presente"},
		{"presente exatamente no início", true, "08:00", "08:00", "", "Presente"},
		{"presente depois do início", true, "08:20", "08:00", "", "Atrasado"},
		{"presente sem hora registrada", true, "", "08:00", "", "Presente"},
		{"ausente sem justificativa", false, "", "08:00", "", "Ausente"},
		{"ausente com atestado", false, "", "08:00", "Atestado médico", "Justificado"},
		{"ausente falta justificada", false, "", "08:00", "Falta justificada pela mãe", "Justificado"},
		{"ausente motivo qualquer", false, "", "08:00", "não veio", "Ausente"},
	}
	for _, tc := range tests {
		t.Run(tc.nome, func(t *testing.T) {
			got := statusLabel(tc.presente, tc.horaRegistro, tc.horaInicio, tc.justificativa)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReportRow(t *testing.T) {
	matricula := "2024001"
	obs := "aula de reposição"
	aluno := models.Aluno{Nome: "Maria Silva", CPF: "111.222.333-44", Matricula: &matricula}
	turma := models.Turma{Nome: "Robótica A", HorarioInicio: "08:00", HorarioFim: "10:00"}
	curso := models.Curso{Nome: "Robótica"}
	unidade := models.Unidade{Nome: "Unidade Centro"}
	instrutor := models.User{Nome: "Carlos"}
	ch := models.Chamada{Data: "2026-08-29", ObservacoesAula: &obs}
	p := models.Presenca{Presente: true, HoraRegistro: "08:10"}

	row := reportRow(&aluno, &turma, &curso, &unidade, &instrutor, &ch, p)

	assert.Len(t, row, len(reportHeader))
	assert.Equal(t, []string{
		"Maria Silva", "111.222.333-44", "2024001", "Robótica A", "Robótica",
		"2026-08-29", "08:00", "10:00", "Atrasado", "08:10",
		"Carlos", "Unidade Centro", "aula de reposição",
	}, row)
}

func TestReportRowCamposOpcionaisVazios(t *testing.T) {
	aluno := models.Aluno{Nome: "João", CPF: "1"}
	turma := models.Turma{Nome: "T", HorarioInicio: "08:00", HorarioFim: "10:00"}
	row := reportRow(&aluno, &turma, &models.Curso{}, &models.Unidade{}, &models.User{},
		&models.Chamada{Data: "2026-08-29"}, models.Presenca{})

	assert.Equal(t, "", row[2], "matrícula ausente vira vazio")
	assert.Equal(t, "", row[12], "observações ausentes viram vazio")
	assert.Equal(t, "Ausente", row[8])
}

func TestArredonda1(t *testing.T) {
	assert.Equal(t, 66.7, arredonda1(66.666))
	assert.Equal(t, 75.0, arredonda1(75.0))
	assert.Equal(t, 0.0, arredonda1(0))
}

func TestAttendanceExportRefleteContagens(t *testing.T) {
	// os status exportados têm que bater com os totais gravados na chamada
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewReportHandler(db, zap.NewNop())

	presencas := models.PresenceMap{
		esc.alunos[0].ID: {Presente: true, HoraRegistro: "07:55"},
		esc.alunos[1].ID: {Presente: true, HoraRegistro: "08:30"},
		esc.alunos[2].ID: {Presente: false},
	}
	presentes, faltas := presencas.Totais()
	ch := models.Chamada{
		ID: uuid.NewString(), TurmaID: esc.turma.ID, InstrutorID: esc.instrutor.ID,
		Data: "2026-08-28", Horario: "08:00",
		Presencas: presencas, TotalPresentes: presentes, TotalFaltas: faltas,
	}
	require.NoError(t, db.Create(&ch).Error)

	c, rec := authCtx(&esc.admin, http.MethodGet, "/reports/attendance?format=json", "")
	require.NoError(t, h.Attendance(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows  []map[string]string `json:"rows"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 3)

	porStatus := map[string]int{}
	for _, row := range resp.Rows {
		porStatus[row["Status"]]++
	}
	assert.Equal(t, 1, porStatus["Presente"])
	assert.Equal(t, 1, porStatus["Atrasado"])
	assert.Equal(t, 1, porStatus["Ausente"])
	assert.Equal(t, ch.TotalPresentes, porStatus["Presente"]+porStatus["Atrasado"])
	assert.Equal(t, ch.TotalFaltas, porStatus["Ausente"]+porStatus["Justificado"])
}

func TestAttendanceExportTurmaForaDoRecorte(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewReportHandler(db, zap.NewNop())

	c, _ := authCtx(&esc.monitorB, http.MethodGet, "/reports/attendance?turma_id="+esc.turma.ID, "")
	assert.Equal(t, http.StatusForbidden, httpStatus(t, h.Attendance(c)))
}
