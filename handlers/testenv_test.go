package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

// banco em memória por teste; o schema é o mesmo do AutoMigrate de produção
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Unidade{},
		&models.Curso{},
		&models.Aluno{},
		&models.Turma{},
		&models.Chamada{},
		&models.Desistente{},
		&models.Atestado{},
	))
	return db
}

// cenário mínimo de escola: duas unidades, um curso, uma turma na unidade
// Centro com três alunos no roster
type escola struct {
	unidadeA  models.Unidade
	unidadeB  models.Unidade
	curso     models.Curso
	admin     models.User
	instrutor models.User
	monitorA  models.User
	monitorB  models.User
	turma     models.Turma
	alunos    []models.Aluno
}

func seedEscola(t *testing.T, db *gorm.DB) *escola {
	t.Helper()
	e := &escola{}

	e.unidadeA = models.Unidade{ID: uuid.NewString(), Nome: "Unidade Centro", Endereco: "Rua A", Ativo: true}
	e.unidadeB = models.Unidade{ID: uuid.NewString(), Nome: "Unidade Norte", Endereco: "Rua B", Ativo: true}
	require.NoError(t, db.Create(&e.unidadeA).Error)
	require.NoError(t, db.Create(&e.unidadeB).Error)

	e.curso = models.Curso{ID: uuid.NewString(), Nome: "Robótica", CargaHoraria: 80, DiasAula: models.DiasAulaPadrao, Ativo: true}
	require.NoError(t, db.Create(&e.curso).Error)

	e.admin = models.User{ID: uuid.NewString(), Nome: "Admin", Email: "admin@escola.org", Senha: "x",
		Tipo: models.TipoAdmin, Ativo: true, Status: models.StatusAtivo}
	e.instrutor = models.User{ID: uuid.NewString(), Nome: "Carlos", Email: "carlos@escola.org", Senha: "x",
		Tipo: models.TipoInstrutor, Ativo: true, Status: models.StatusAtivo,
		UnidadeID: &e.unidadeA.ID, CursoID: &e.curso.ID}
	e.monitorA = models.User{ID: uuid.NewString(), Nome: "Monitor A", Email: "ma@escola.org", Senha: "x",
		Tipo: models.TipoMonitor, Ativo: true, Status: models.StatusAtivo, UnidadeID: &e.unidadeA.ID}
	e.monitorB = models.User{ID: uuid.NewString(), Nome: "Monitor B", Email: "mb@escola.org", Senha: "x",
		Tipo: models.TipoMonitor, Ativo: true, Status: models.StatusAtivo, UnidadeID: &e.unidadeB.ID}
	for _, u := range []*models.User{&e.admin, &e.instrutor, &e.monitorA, &e.monitorB} {
		require.NoError(t, db.Create(u).Error)
	}

	for _, nome := range []string{"Maria Silva", "João Souza", "Ana Lima"} {
		a := models.Aluno{ID: uuid.NewString(), Nome: nome, CPF: uuid.NewString()[:11],
			Ativo: true, Status: models.AlunoAtivo}
		require.NoError(t, db.Create(&a).Error)
		e.alunos = append(e.alunos, a)
	}

	ids := []string{e.alunos[0].ID, e.alunos[1].ID, e.alunos[2].ID}
	e.turma = models.Turma{
		ID: uuid.NewString(), Nome: "Robótica A",
		UnidadeID: e.unidadeA.ID, CursoID: e.curso.ID, InstrutorID: e.instrutor.ID,
		AlunosIDs: ids, DataInicio: "2020-01-01", DataFim: "2030-12-31",
		HorarioInicio: "08:00", HorarioFim: "12:00",
		DiasSemana: []string{"segunda", "terca", "quarta", "quinta", "sexta", "sabado", "domingo"},
		VagasTotal: 30, VagasOcupadas: len(ids), Ativo: true,
	}
	require.NoError(t, db.Create(&e.turma).Error)

	return e
}

// contexto echo autenticado, com o validator de produção plugado
func authCtx(u *models.User, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middlewares.ContextUserKey, u)
	return c, rec
}

// upload multipart de um CSV para o contexto de importação
func csvUploadCtx(t *testing.T, u *models.User, csvBody string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "alunos.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/students/import-csv", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middlewares.ContextUserKey, u)
	return c, rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "esperava *echo.HTTPError, veio %v", err)
	return he.Code
}
