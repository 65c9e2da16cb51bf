package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

type importResp struct {
	Details importResults  `json:"details"`
	Summary map[string]int `json:"summary"`
}

func doImport(t *testing.T, h *AlunoHandler, u *models.User, csvBody string) importResp {
	t.Helper()
	c, rec := csvUploadCtx(t, u, csvBody)
	require.NoError(t, h.ImportCSV(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp importResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestImportCSVMonitorBloqueado(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewAlunoHandler(db, zap.NewNop())

	c, _ := csvUploadCtx(t, &esc.monitorA, "nome,cpf,data_nascimento,curso\nMaria Souza,111,01/02/2010,Robótica\n")
	assert.Equal(t, http.StatusForbidden, httpStatus(t, h.ImportCSV(c)))

	var n int64
	require.NoError(t, db.Model(&models.Aluno{}).Where("cpf = ?", "111").Count(&n).Error)
	assert.Zero(t, n)
}

func TestImportCSVDuplicadoNaoInsere(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewAlunoHandler(db, zap.NewNop())

	existente := models.Aluno{ID: uuid.NewString(), Nome: "Pedro Dias", CPF: "222",
		Ativo: true, Status: models.AlunoAtivo}
	require.NoError(t, db.Create(&existente).Error)

	resp := doImport(t, h, &esc.admin,
		"nome,cpf,data_nascimento,curso\nPedro Dias,222,01/02/2010,Robótica\n")

	assert.Equal(t, 1, resp.Summary["duplicates"])
	assert.Equal(t, 0, resp.Summary["successful"])
	require.Len(t, resp.Details.Duplicates, 1)
	assert.Contains(t, resp.Details.Duplicates[0], "222")

	var n int64
	require.NoError(t, db.Model(&models.Aluno{}).Where("cpf = ?", "222").Count(&n).Error)
	assert.EqualValues(t, 1, n, "linha duplicada é reportada, não inserida")
}

func TestImportCSVCursoDesconhecido(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewAlunoHandler(db, zap.NewNop())

	resp := doImport(t, h, &esc.admin,
		"nome,cpf,data_nascimento,curso\nLuiza Prado,333,05/06/2011,Marcenaria\n")

	assert.Equal(t, 1, resp.Summary["errors"])
	require.Len(t, resp.Details.Errors, 1)
	assert.Contains(t, resp.Details.Errors[0], "Marcenaria")
	assert.Contains(t, resp.Details.Errors[0], "Robótica", "erro sugere os cursos disponíveis")

	var n int64
	require.NoError(t, db.Model(&models.Aluno{}).Where("cpf = ?", "333").Count(&n).Error)
	assert.Zero(t, n)
}

func TestImportCSVTurmaAutoCriadaComPadroes(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewAlunoHandler(db, zap.NewNop())

	resp := doImport(t, h, &esc.admin,
		"nome,cpf,data_nascimento,curso,turma\nBruno Reis,444,10/10/2012,Robótica,Robótica B\n")

	assert.Equal(t, 1, resp.Summary["successful"])
	require.NotEmpty(t, resp.Details.Warnings)

	var nova models.Turma
	require.NoError(t, db.First(&nova, "nome = ?", "Robótica B").Error)
	assert.NotEmpty(t, nova.DataInicio, "turma automática nasce com período definido")
	assert.Equal(t, "08:00", nova.HorarioInicio)
	assert.Equal(t, "12:00", nova.HorarioFim)
	assert.NotEmpty(t, nova.DiasSemana)
	assert.True(t, nova.TemAluno(alunoIDPorCPF(t, db, "444")))
}

func alunoIDPorCPF(t *testing.T, db *gorm.DB, cpf string) string {
	t.Helper()
	var a models.Aluno
	require.NoError(t, db.First(&a, "cpf = ?", cpf).Error)
	return a.ID
}
