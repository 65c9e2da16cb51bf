package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/scope"
)

type AlunoHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAlunoHandler(db *gorm.DB, log *zap.Logger) *AlunoHandler {
	return &AlunoHandler{DB: db, Log: log}
}

// validarNomeCompleto rejeita cadastro com placeholder ("Aluno 1" etc).
func validarNomeCompleto(nome string) error {
	n := strings.TrimSpace(nome)
	if len(n) < 3 || strings.HasPrefix(strings.ToLower(n), "aluno") {
		return errors.New("Nome completo é obrigatório. Não é permitido 'Aluno 1', 'Aluno 2', etc.")
	}
	return nil
}

type AlunoCreateReq struct {
	Nome                string  `json:"nome" validate:"required"`
	CPF                 string  `json:"cpf" validate:"required"`
	Matricula           *string `json:"matricula"`
	DataNascimento      string  `json:"data_nascimento" validate:"required,datetime=2006-01-02"`
	RG                  *string `json:"rg"`
	Genero              *string `json:"genero"`
	Telefone            *string `json:"telefone"`
	Email               *string `json:"email" validate:"omitempty,email"`
	Endereco            *string `json:"endereco"`
	NomeResponsavel     *string `json:"nome_responsavel"`
	TelefoneResponsavel *string `json:"telefone_responsavel"`
	Observacoes         *string `json:"observacoes"`
}

// POST /students — monitor nunca cadastra; instrutor vincula ao próprio
// curso/unidade; CPF é único no sistema inteiro.
func (h *AlunoHandler) Create(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	if err := scope.CanCreateAluno(cu); err != nil {
		switch {
		case errors.Is(err, scope.ErrMonitorSoLeitura):
			return forbidden("Monitores não podem cadastrar alunos. Apenas visualizar.")
		case errors.Is(err, scope.ErrSemVinculo):
			return forbidden("Usuário deve ter curso e unidade atribuídos")
		default:
			return forbidden("Tipo de usuário não autorizado para cadastrar alunos")
		}
	}

	var req AlunoCreateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := validarNomeCompleto(req.Nome); err != nil {
		return badRequest(err.Error())
	}

	var dup models.Aluno
	if err := h.DB.Where("cpf = ?", req.CPF).First(&dup).Error; err == nil {
		return badRequest("CPF já cadastrado no sistema")
	}

	aluno := models.Aluno{
		ID:                  uuid.NewString(),
		Nome:                strings.TrimSpace(req.Nome),
		CPF:                 strings.TrimSpace(req.CPF),
		Matricula:           req.Matricula,
		DataNascimento:      &req.DataNascimento,
		RG:                  req.RG,
		Genero:              req.Genero,
		Telefone:            req.Telefone,
		Email:               req.Email,
		Endereco:            req.Endereco,
		NomeResponsavel:     req.NomeResponsavel,
		TelefoneResponsavel: req.TelefoneResponsavel,
		Observacoes:         req.Observacoes,
		Ativo:               true,
		Status:              models.AlunoAtivo,
		CreatedBy:           &cu.ID,
		CreatedByNome:       &cu.Nome,
		CreatedByTipo:       &cu.Tipo,
	}

	// aluno cadastrado por instrutor nasce vinculado ao curso/unidade dele
	if cu.Tipo == models.TipoInstrutor {
		aluno.CursoID = cu.CursoID
	}

	if err := h.DB.Create(&aluno).Error; err != nil {
		return badRequest(err.Error())
	}

	h.Log.Info("aluno cadastrado",
		zap.String("aluno", aluno.Nome),
		zap.String("por", cu.Email),
		zap.String("tipo", cu.Tipo))

	return c.JSON(http.StatusCreated, aluno)
}

// GET /students?status= — recorte pelo resolvedor de escopo: admin tudo,
// instrutor via roster das próprias turmas, pedagogo/monitor via rosters da
// unidade.
func (h *AlunoHandler) List(c echo.Context) error {
	cu := middlewares.CurrentUser(c)
	sc := scope.ForUser(h.DB, cu)

	tx, empty, err := sc.AlunoQuery()
	if err != nil {
		return internal(err.Error())
	}
	if empty {
		return c.JSON(http.StatusOK, []models.Aluno{})
	}

	if status := c.QueryParam("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	skip, limit := paginacao(c)
	var alunos []models.Aluno
	if err := tx.Offset(skip).Limit(limit).Order("nome ASC").Find(&alunos).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, alunos)
}

type AlunoUpdateReq struct {
	Nome                *string `json:"nome"`
	Telefone            *string `json:"telefone"`
	Email               *string `json:"email" validate:"omitempty,email"`
	Endereco            *string `json:"endereco"`
	NomeResponsavel     *string `json:"nome_responsavel"`
	TelefoneResponsavel *string `json:"telefone_responsavel"`
	Observacoes         *string `json:"observacoes"`
	Status              *string `json:"status" validate:"omitempty,oneof=ativo desistente concluido suspenso"`
}

// PUT /students/:id — admin apenas, merge parcial.
func (h *AlunoHandler) Update(c echo.Context) error {
	var req AlunoUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("payload inválido")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updates := map[string]any{}
	if req.Nome != nil {
		if err := validarNomeCompleto(*req.Nome); err != nil {
			return badRequest(err.Error())
		}
		updates["nome"] = *req.Nome
	}
	if req.Telefone != nil {
		updates["telefone"] = *req.Telefone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Endereco != nil {
		updates["endereco"] = *req.Endereco
	}
	if req.NomeResponsavel != nil {
		updates["nome_responsavel"] = *req.NomeResponsavel
	}
	if req.TelefoneResponsavel != nil {
		updates["telefone_responsavel"] = *req.TelefoneResponsavel
	}
	if req.Observacoes != nil {
		updates["observacoes"] = *req.Observacoes
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return badRequest("Nenhum dado para atualizar")
	}

	res := h.DB.Model(&models.Aluno{}).Where("id = ?", c.Param("id")).Updates(updates)
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Aluno não encontrado")
	}

	var aluno models.Aluno
	if err := h.DB.First(&aluno, "id = ?", c.Param("id")).Error; err != nil {
		return internal(err.Error())
	}
	return c.JSON(http.StatusOK, aluno)
}

// DELETE /students/:id — soft delete, admin apenas.
func (h *AlunoHandler) Delete(c echo.Context) error {
	res := h.DB.Model(&models.Aluno{}).Where("id = ?", c.Param("id")).Update("ativo", false)
	if res.Error != nil {
		return internal(res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return notFound("Aluno não encontrado")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Aluno desativado com sucesso"})
}

// POST /students/cleanup-orphans — manutenção: desativa alunos que não estão
// no roster de nenhuma turma ativa.
func (h *AlunoHandler) CleanupOrphans(c echo.Context) error {
	var turmas []models.Turma
	if err := h.DB.Where("ativo = ?", true).Find(&turmas).Error; err != nil {
		return internal(err.Error())
	}

	vinculados := scope.AlunoIDs(turmas)

	tx := h.DB.Model(&models.Aluno{}).Where("ativo = ?", true)
	if len(vinculados) > 0 {
		tx = tx.Where("id NOT IN ?", vinculados)
	}

	var orfaos []models.Aluno
	if err := tx.Find(&orfaos).Error; err != nil {
		return internal(err.Error())
	}
	if len(orfaos) == 0 {
		return c.JSON(http.StatusOK, map[string]any{
			"message":         "Nenhum aluno órfão encontrado",
			"orphans_found":   0,
			"orphans_removed": 0,
		})
	}

	ids := make([]string, 0, len(orfaos))
	nomes := make([]string, 0, len(orfaos))
	for _, a := range orfaos {
		ids = append(ids, a.ID)
		nomes = append(nomes, a.Nome)
	}

	res := h.DB.Model(&models.Aluno{}).Where("id IN ?", ids).Update("ativo", false)
	if res.Error != nil {
		return internal(res.Error.Error())
	}

	cu := middlewares.CurrentUser(c)
	h.Log.Info("limpeza de órfãos",
		zap.String("admin", cu.Email),
		zap.Int64("removidos", res.RowsAffected))

	if len(nomes) > 20 {
		nomes = nomes[:20]
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":         "Limpeza concluída",
		"orphans_found":   len(orfaos),
		"orphans_removed": res.RowsAffected,
		"orphan_names":    nomes,
	})
}
