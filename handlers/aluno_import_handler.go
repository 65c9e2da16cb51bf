package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

// importResults acumula o desfecho de cada linha; a importação nunca aborta
// o lote por causa de uma linha ruim.
type importResults struct {
	Success      []string `json:"success"`
	Errors       []string `json:"errors"`
	Duplicates   []string `json:"duplicates"`
	Unauthorized []string `json:"unauthorized"`
	Warnings     []string `json:"warnings"`
}

// POST /students/import-csv
//
// Colunas obrigatórias: nome, cpf, data_nascimento, curso.
// Opcionais: turma, email, telefone.
func (h *AlunoHandler) ImportCSV(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	if cu.Tipo == models.TipoMonitor {
		return forbidden("Monitores não podem importar alunos CSV")
	}
	if cu.Tipo != models.TipoAdmin && cu.Tipo != models.TipoInstrutor && cu.Tipo != models.TipoPedagogo {
		return forbidden("Tipo de usuário não autorizado para importar alunos")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest("Arquivo CSV é obrigatório")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return badRequest("Arquivo deve ser CSV")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest("Falha ao abrir arquivo")
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return badRequest("Falha ao ler arquivo")
	}

	content := decodeCSV(raw)
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return badRequest("CSV vazio ou ilegível")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(cleanCell(name))] = i
	}
	for _, required := range []string{"nome", "cpf", "data_nascimento", "curso"} {
		if _, ok := cols[required]; !ok {
			return badRequest("CSV deve conter campos: nome, cpf, data_nascimento, curso")
		}
	}

	// cursos por nome e turmas por (curso, nome), para validar sem uma
	// consulta por linha
	var cursos []models.Curso
	if err := h.DB.Find(&cursos).Error; err != nil {
		return internal(err.Error())
	}
	cursosPorNome := make(map[string]models.Curso, len(cursos))
	for _, cur := range cursos {
		cursosPorNome[cur.Nome] = cur
	}

	var turmas []models.Turma
	if err := h.DB.Find(&turmas).Error; err != nil {
		return internal(err.Error())
	}
	turmasPorChave := make(map[string]models.Turma, len(turmas))
	for _, t := range turmas {
		turmasPorChave[t.CursoID+"_"+t.Nome] = t
	}

	results := importResults{
		Success:      []string{},
		Errors:       []string{},
		Duplicates:   []string{},
		Unauthorized: []string{},
		Warnings:     []string{},
	}

	cell := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return cleanCell(row[idx])
	}

	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("Linha %d: linha malformada", rowNum))
			continue
		}

		nome := cell(row, "nome")
		cpf := cell(row, "cpf")
		dataNasc := cell(row, "data_nascimento")
		cursoNome := cell(row, "curso")

		if nome == "" || cpf == "" || dataNasc == "" {
			results.Errors = append(results.Errors, fmt.Sprintf("Linha %d: Campos obrigatórios em branco", rowNum))
			continue
		}

		dataISO, err := convertBRDate(dataNasc)
		if err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("Linha %d: Data de nascimento inválida: %s", rowNum, dataNasc))
			continue
		}

		curso, ok := cursosPorNome[cursoNome]
		if !ok {
			sugestoes := make([]string, 0, 5)
			for nomeCurso := range cursosPorNome {
				if len(sugestoes) == 5 {
					break
				}
				sugestoes = append(sugestoes, "'"+nomeCurso+"'")
			}
			results.Errors = append(results.Errors, fmt.Sprintf(
				"Linha %d: Curso '%s' não encontrado. Cursos disponíveis: %s",
				rowNum, cursoNome, strings.Join(sugestoes, ", ")))
			continue
		}

		// recorte de permissão por linha
		if cu.Tipo == models.TipoInstrutor {
			if cu.CursoID == nil || curso.ID != *cu.CursoID {
				results.Unauthorized = append(results.Unauthorized, fmt.Sprintf(
					"Linha %d: Instrutor não pode importar alunos para curso '%s'", rowNum, curso.Nome))
				continue
			}
		}

		var dup models.Aluno
		if err := h.DB.Where("cpf = ?", cpf).First(&dup).Error; err == nil {
			results.Duplicates = append(results.Duplicates, fmt.Sprintf("Linha %d: CPF %s já cadastrado", rowNum, cpf))
			continue
		}

		turmaNome := cell(row, "turma")
		var turmaID *string
		statusTurma := "nao_alocado"

		if turmaNome != "" {
			chave := curso.ID + "_" + turmaNome
			if t, ok := turmasPorChave[chave]; ok {
				turmaID = &t.ID
				statusTurma = "alocado"
			} else if cu.Tipo == models.TipoAdmin || cu.Tipo == models.TipoInstrutor {
				// turma inexistente: criada na hora quando o papel permite,
				// com período e horário padrão para não quebrar relatórios e
				// lembretes de chamada
				dias := []string(curso.DiasAula)
				if len(dias) == 0 {
					dias = models.DiasAulaPadrao
				}
				nova := models.Turma{
					ID:            uuid.NewString(),
					Nome:          turmaNome,
					CursoID:       curso.ID,
					InstrutorID:   cu.ID,
					AlunosIDs:     []string{},
					DataInicio:    time.Now().Format("2006-01-02"),
					HorarioInicio: "08:00",
					HorarioFim:    "12:00",
					DiasSemana:    dias,
					VagasTotal:    30,
					Ativo:         true,
				}
				if cu.UnidadeID != nil {
					nova.UnidadeID = *cu.UnidadeID
				}
				if err := h.DB.Create(&nova).Error; err != nil {
					results.Errors = append(results.Errors, fmt.Sprintf("Linha %d: falha ao criar turma '%s'", rowNum, turmaNome))
					continue
				}
				turmasPorChave[chave] = nova
				turmaID = &nova.ID
				statusTurma = "alocado"
				results.Warnings = append(results.Warnings, fmt.Sprintf(
					"Linha %d: Turma '%s' criada automaticamente com horário padrão 08:00-12:00 - revise o cadastro", rowNum, turmaNome))
			} else {
				results.Warnings = append(results.Warnings, fmt.Sprintf(
					"Linha %d: Turma '%s' não existe - aluno será marcado como 'não alocado'", rowNum, turmaNome))
			}
		} else {
			results.Warnings = append(results.Warnings, fmt.Sprintf(
				"Linha %d: Sem turma definida - aluno será marcado como 'não alocado'", rowNum))
		}

		aluno := models.Aluno{
			ID:             uuid.NewString(),
			Nome:           nome,
			CPF:            cpf,
			Matricula:      strptr(cell(row, "matricula")),
			DataNascimento: &dataISO,
			Email:          strptr(cell(row, "email")),
			Telefone:       strptr(cell(row, "telefone")),
			CursoID:        &curso.ID,
			TurmaID:        turmaID,
			StatusTurma:    &statusTurma,
			Ativo:          true,
			Status:         models.AlunoAtivo,
			CreatedBy:      &cu.ID,
			CreatedByNome:  &cu.Nome,
			CreatedByTipo:  &cu.Tipo,
		}
		if err := h.DB.Create(&aluno).Error; err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("Linha %d: %v", rowNum, err))
			continue
		}

		if turmaID != nil {
			var t models.Turma
			if err := h.DB.First(&t, "id = ?", *turmaID).Error; err == nil {
				if err := t.AddAluno(aluno.ID); err == nil {
					if err := h.DB.Model(&t).Updates(map[string]any{
						"alunos_ids":     t.AlunosIDs,
						"vagas_ocupadas": t.VagasOcupadas,
					}).Error; err != nil {
						h.Log.Warn("falha ao vincular aluno importado à turma",
							zap.String("aluno", aluno.ID), zap.String("turma", t.ID), zap.Error(err))
					}
					turmasPorChave[t.CursoID+"_"+t.Nome] = t
				} else {
					results.Warnings = append(results.Warnings, fmt.Sprintf(
						"Linha %d: aluno cadastrado mas não alocado (%v)", rowNum, err))
				}
			}
		}

		results.Success = append(results.Success, fmt.Sprintf("Linha %d: %s cadastrado com sucesso", rowNum, nome))
	}

	falhas := len(results.Errors) + len(results.Duplicates) + len(results.Unauthorized)
	return c.JSON(http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Importação concluída: %d sucessos, %d falhas", len(results.Success), falhas),
		"details": results,
		"summary": map[string]any{
			"total_processed": len(results.Success) + falhas,
			"successful":      len(results.Success),
			"errors":          len(results.Errors),
			"duplicates":      len(results.Duplicates),
			"unauthorized":    len(results.Unauthorized),
			"warnings":        len(results.Warnings),
		},
	})
}
