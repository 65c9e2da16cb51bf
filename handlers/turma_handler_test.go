package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

func TestStudentsForaDoRecorte(t *testing.T) {
	// monitor de outra unidade não expande roster alheio
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewTurmaHandler(db, zap.NewNop())

	c, _ := authCtx(&esc.monitorB, http.MethodGet, "/classes/"+esc.turma.ID+"/students", "")
	c.SetParamNames("id")
	c.SetParamValues(esc.turma.ID)

	assert.Equal(t, http.StatusForbidden, httpStatus(t, h.Students(c)))
}

func TestStudentsDentroDoRecorte(t *testing.T) {
	db := newTestDB(t)
	esc := seedEscola(t, db)
	h := NewTurmaHandler(db, zap.NewNop())

	c, rec := authCtx(&esc.monitorA, http.MethodGet, "/classes/"+esc.turma.ID+"/students", "")
	c.SetParamNames("id")
	c.SetParamValues(esc.turma.ID)

	require.NoError(t, h.Students(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var alunos []models.Aluno
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alunos))
	assert.Len(t, alunos, 3)
}
