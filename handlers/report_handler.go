package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/scope"
)

type ReportHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewReportHandler(db *gorm.DB, log *zap.Logger) *ReportHandler {
	return &ReportHandler{DB: db, Log: log}
}

// Cabeçalho fixo do relatório de frequência. Ordem importa: as planilhas da
// coordenação dependem dela.
var reportHeader = []string{
	"Aluno", "CPF", "Matricula", "Turma", "Curso", "Data",
	"Hora_Inicio", "Hora_Fim", "Status", "Hora_Registro",
	"Professor", "Unidade", "Observacoes",
}

// statusLabel classifica uma presença para o relatório:
//
//   - presente registrado até o horário de início: Presente
//   - presente registrado depois: Atrasado
//   - ausente com atestado ou falta justificada: Justificado
//   - ausente: Ausente
func statusLabel(presente bool, horaRegistro, horaInicio, justificativa string) string {
	if presente {
		if horaRegistro != "" && horaInicio != "" && horaRegistro > horaInicio {
			return "Atrasado"
		}
		return "Presente"
	}
	j := strings.ToLower(justificativa)
	if strings.Contains(j, "atestado") || strings.Contains(j, "justificada") {
		return "Justificado"
	}
	return "Ausente"
}

// reportRow monta uma linha do CSV a partir da chamada e dos cadastros
// relacionados.
func reportRow(aluno *models.Aluno, turma *models.Turma, curso *models.Curso,
	unidade *models.Unidade, instrutor *models.User, ch *models.Chamada, p models.Presenca) []string {

	matricula := ""
	if aluno.Matricula != nil {
		matricula = *aluno.Matricula
	}
	observacoes := ""
	if ch.ObservacoesAula != nil {
		observacoes = *ch.ObservacoesAula
	}
	return []string{
		aluno.Nome,
		aluno.CPF,
		matricula,
		turma.Nome,
		curso.Nome,
		ch.Data,
		turma.HorarioInicio,
		turma.HorarioFim,
		statusLabel(p.Presente, p.HoraRegistro, turma.HorarioInicio, p.Justificativa),
		p.HoraRegistro,
		instrutor.Nome,
		unidade.Nome,
		observacoes,
	}
}

// GET /reports/attendance?turma_id=&unidade_id=&curso_id=&data_inicio=&data_fim=&format=
//
// Exporta as chamadas do recorte do usuário em CSV (padrão) ou JSON. Pedir
// explicitamente uma turma fora do recorte é 403, não um arquivo vazio.
func (h *ReportHandler) Attendance(c echo.Context) error {
	cu := middlewares.CurrentUser(c)
	sc := scope.ForUser(h.DB, cu)

	turmas, err := sc.Turmas()
	if err != nil {
		return internal(err.Error())
	}

	if turmaID := c.QueryParam("turma_id"); turmaID != "" {
		var pedida *models.Turma
		for i := range turmas {
			if turmas[i].ID == turmaID {
				pedida = &turmas[i]
				break
			}
		}
		if pedida == nil {
			return forbidden("Turma fora do seu recorte")
		}
		turmas = []models.Turma{*pedida}
	}
	if unidadeID := c.QueryParam("unidade_id"); unidadeID != "" {
		filtradas := turmas[:0]
		for _, t := range turmas {
			if t.UnidadeID == unidadeID {
				filtradas = append(filtradas, t)
			}
		}
		turmas = filtradas
	}
	if cursoID := c.QueryParam("curso_id"); cursoID != "" {
		filtradas := turmas[:0]
		for _, t := range turmas {
			if t.CursoID == cursoID {
				filtradas = append(filtradas, t)
			}
		}
		turmas = filtradas
	}

	turmasPorID := make(map[string]models.Turma, len(turmas))
	turmaIDs := make([]string, 0, len(turmas))
	for _, t := range turmas {
		turmasPorID[t.ID] = t
		turmaIDs = append(turmaIDs, t.ID)
	}

	var chamadas []models.Chamada
	if len(turmaIDs) > 0 {
		tx := h.DB.Where("turma_id IN ?", turmaIDs)
		if inicio := c.QueryParam("data_inicio"); inicio != "" {
			tx = tx.Where("data >= ?", inicio)
		}
		if fim := c.QueryParam("data_fim"); fim != "" {
			tx = tx.Where("data <= ?", fim)
		}
		if err := tx.Order("data ASC").Find(&chamadas).Error; err != nil {
			return internal(err.Error())
		}
	}

	alunos, err := h.mapAlunos()
	if err != nil {
		return internal(err.Error())
	}
	cursos, err := h.mapCursos()
	if err != nil {
		return internal(err.Error())
	}
	unidades, err := h.mapUnidades()
	if err != nil {
		return internal(err.Error())
	}
	instrutores, err := h.mapUsers()
	if err != nil {
		return internal(err.Error())
	}

	var rows [][]string
	for _, ch := range chamadas {
		turma, ok := turmasPorID[ch.TurmaID]
		if !ok {
			continue
		}
		curso, okCurso := cursos[turma.CursoID]
		unidade, okUnidade := unidades[turma.UnidadeID]
		instrutor, okInstrutor := instrutores[turma.InstrutorID]
		if !okCurso || !okUnidade || !okInstrutor {
			h.Log.Warn("chamada com referência pendente ignorada no relatório",
				zap.String("chamada", ch.ID), zap.String("turma", turma.ID))
			continue
		}

		// ordena por nome para saída estável
		ids := make([]string, 0, len(ch.Presencas))
		for alunoID := range ch.Presencas {
			ids = append(ids, alunoID)
		}
		sort.Slice(ids, func(i, j int) bool {
			ai, okI := alunos[ids[i]]
			aj, okJ := alunos[ids[j]]
			if !okI || !okJ {
				return ids[i] < ids[j]
			}
			return ai.Nome < aj.Nome
		})

		for _, alunoID := range ids {
			aluno, ok := alunos[alunoID]
			if !ok {
				h.Log.Warn("presença de aluno inexistente ignorada no relatório",
					zap.String("chamada", ch.ID), zap.String("aluno", alunoID))
				continue
			}
			rows = append(rows, reportRow(&aluno, &turma, &curso, &unidade, &instrutor, &ch, ch.Presencas[alunoID]))
		}
	}

	if c.QueryParam("format") == "json" {
		out := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			m := make(map[string]string, len(reportHeader))
			for i, col := range reportHeader {
				m[col] = row[i]
			}
			out = append(out, m)
		}
		return c.JSON(http.StatusOK, map[string]any{"rows": out, "total": len(out)})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return internal(err.Error())
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return internal(err.Error())
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return internal(err.Error())
	}

	filename := fmt.Sprintf("relatorio_frequencia_%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// alunoStats acumula a frequência de um aluno dentro do recorte.
type alunoStats struct {
	AlunoID      string  `json:"aluno_id"`
	Nome         string  `json:"nome"`
	TotalAulas   int     `json:"total_aulas"`
	Presencas    int     `json:"presencas"`
	Faltas       int     `json:"faltas"`
	TaxaPresenca float64 `json:"taxa_presenca"`
}

type turmaStats struct {
	TurmaID      string  `json:"turma_id"`
	Nome         string  `json:"nome"`
	TotalAulas   int     `json:"total_aulas"`
	TaxaPresenca float64 `json:"taxa_presenca"`
	TotalAlunos  int     `json:"total_alunos"`
}

func arredonda1(v float64) float64 {
	return math.Round(v*10) / 10
}

// GET /reports/teacher-stats — visão do instrutor sobre as próprias turmas:
// taxa por aluno, alunos em risco (presença < 75%), melhores e piores.
func (h *ReportHandler) TeacherStats(c echo.Context) error {
	cu := middlewares.CurrentUser(c)
	sc := scope.ForUser(h.DB, cu)

	turmas, err := sc.Turmas()
	if err != nil {
		return internal(err.Error())
	}

	alunos, err := h.mapAlunos()
	if err != nil {
		return internal(err.Error())
	}

	porAluno := map[string]*alunoStats{}
	porTurma := make([]turmaStats, 0, len(turmas))

	for _, t := range turmas {
		var chamadas []models.Chamada
		if err := h.DB.Where("turma_id = ?", t.ID).Find(&chamadas).Error; err != nil {
			return internal(err.Error())
		}

		presTurma, totTurma := 0, 0
		for _, ch := range chamadas {
			for alunoID, p := range ch.Presencas {
				st, ok := porAluno[alunoID]
				if !ok {
					nome := alunoID
					if a, found := alunos[alunoID]; found {
						nome = a.Nome
					}
					st = &alunoStats{AlunoID: alunoID, Nome: nome}
					porAluno[alunoID] = st
				}
				st.TotalAulas++
				totTurma++
				if p.Presente {
					st.Presencas++
					presTurma++
				} else {
					st.Faltas++
				}
			}
		}

		taxa := 0.0
		if totTurma > 0 {
			taxa = arredonda1(float64(presTurma) / float64(totTurma) * 100)
		}
		porTurma = append(porTurma, turmaStats{
			TurmaID:      t.ID,
			Nome:         t.Nome,
			TotalAulas:   len(chamadas),
			TaxaPresenca: taxa,
			TotalAlunos:  len(t.AlunosIDs),
		})
	}

	stats := make([]alunoStats, 0, len(porAluno))
	emRisco := []alunoStats{}
	for _, st := range porAluno {
		if st.TotalAulas > 0 {
			st.TaxaPresenca = arredonda1(float64(st.Presencas) / float64(st.TotalAulas) * 100)
		}
		stats = append(stats, *st)
		if st.TaxaPresenca < 75 {
			emRisco = append(emRisco, *st)
		}
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TaxaPresenca != stats[j].TaxaPresenca {
			return stats[i].TaxaPresenca > stats[j].TaxaPresenca
		}
		return stats[i].Nome < stats[j].Nome
	})
	sort.Slice(emRisco, func(i, j int) bool { return emRisco[i].TaxaPresenca < emRisco[j].TaxaPresenca })

	top := stats
	if len(top) > 3 {
		top = top[:3]
	}
	bottom := []alunoStats{}
	if n := len(stats); n > 0 {
		start := n - 3
		if start < 0 {
			start = 0
		}
		bottom = stats[start:]
	}

	return c.JSON(http.StatusOK, map[string]any{
		"turmas":          porTurma,
		"alunos":          stats,
		"alunos_em_risco": emRisco,
		"melhores":        top,
		"piores":          bottom,
	})
}

func (h *ReportHandler) mapAlunos() (map[string]models.Aluno, error) {
	var alunos []models.Aluno
	if err := h.DB.Find(&alunos).Error; err != nil {
		return nil, err
	}
	m := make(map[string]models.Aluno, len(alunos))
	for _, a := range alunos {
		m[a.ID] = a
	}
	return m, nil
}

func (h *ReportHandler) mapCursos() (map[string]models.Curso, error) {
	var cursos []models.Curso
	if err := h.DB.Find(&cursos).Error; err != nil {
		return nil, err
	}
	m := make(map[string]models.Curso, len(cursos))
	for _, cur := range cursos {
		m[cur.ID] = cur
	}
	return m, nil
}

func (h *ReportHandler) mapUnidades() (map[string]models.Unidade, error) {
	var unidades []models.Unidade
	if err := h.DB.Find(&unidades).Error; err != nil {
		return nil, err
	}
	m := make(map[string]models.Unidade, len(unidades))
	for _, u := range unidades {
		m[u.ID] = u
	}
	return m, nil
}

func (h *ReportHandler) mapUsers() (map[string]models.User, error) {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		return nil, err
	}
	m := make(map[string]models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m, nil
}
