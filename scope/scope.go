// Package scope concentra a regra de visibilidade por papel. Todo handler que
// lê ou altera turmas, alunos, chamadas ou desistências resolve o recorte
// aqui; não existe filtro de permissão espalhado por endpoint.
package scope

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

var (
	ErrSemAcesso        = errors.New("papel sem acesso a este recurso")
	ErrSemVinculo       = errors.New("usuário sem unidade/curso atribuído")
	ErrMonitorSoLeitura = errors.New("monitores não podem cadastrar alunos")
)

// Filter descreve o recorte de turmas visível para um usuário. É um valor
// puro: a tradução para SQL acontece só em Apply.
type Filter struct {
	// Denied: papel desconhecido ou vínculo obrigatório ausente; nada visível.
	Denied bool
	// All: sem restrição (admin).
	All bool

	InstrutorID string
	UnidadeID   string
	CursoID     string
}

// TurmaFilter computa o recorte de turmas do usuário.
//
//   - admin: tudo.
//   - instrutor: turmas onde ele é o instrutor, estreitadas pelo curso e
//     unidade dele quando definidos.
//   - pedagogo/monitor: todas as turmas da unidade dele, independente de quem
//     leciona.
//   - qualquer outro papel: nada.
func TurmaFilter(u *models.User) Filter {
	switch u.Tipo {
	case models.TipoAdmin:
		return Filter{All: true}
	case models.TipoInstrutor:
		f := Filter{InstrutorID: u.ID}
		if u.CursoID != nil {
			f.CursoID = *u.CursoID
		}
		if u.UnidadeID != nil {
			f.UnidadeID = *u.UnidadeID
		}
		return f
	case models.TipoPedagogo, models.TipoMonitor:
		if u.UnidadeID == nil {
			return Filter{Denied: true}
		}
		return Filter{UnidadeID: *u.UnidadeID}
	default:
		return Filter{Denied: true}
	}
}

// Matches avalia o filtro em memória, para decidir sobre uma turma já
// carregada. Tem que concordar com Apply — é a mesma regra em duas formas,
// incluindo o corte de turmas inativas.
func (f Filter) Matches(t *models.Turma) bool {
	if f.Denied || !t.Ativo {
		return false
	}
	if f.All {
		return true
	}
	if f.InstrutorID != "" && t.InstrutorID != f.InstrutorID {
		return false
	}
	if f.UnidadeID != "" && t.UnidadeID != f.UnidadeID {
		return false
	}
	if f.CursoID != "" && t.CursoID != f.CursoID {
		return false
	}
	return true
}

// Apply traduz o filtro para a query de turmas. Só turmas ativas entram no
// recorte.
func (f Filter) Apply(tx *gorm.DB) *gorm.DB {
	tx = tx.Where("ativo = ?", true)
	if f.Denied {
		return tx.Where("1 = 0")
	}
	if f.All {
		return tx
	}
	if f.InstrutorID != "" {
		tx = tx.Where("instrutor_id = ?", f.InstrutorID)
	}
	if f.UnidadeID != "" {
		tx = tx.Where("unidade_id = ?", f.UnidadeID)
	}
	if f.CursoID != "" {
		tx = tx.Where("curso_id = ?", f.CursoID)
	}
	return tx
}

// AlunoIDs faz a união dos rosters. A visibilidade de aluno para não-admin é
// exatamente isto: pertencer ao roster de alguma turma visível.
func AlunoIDs(turmas []models.Turma) []string {
	set := make(map[string]struct{})
	for _, t := range turmas {
		for _, id := range t.AlunosIDs {
			set[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Scope amarra o filtro ao banco para os handlers.
type Scope struct {
	User   *models.User
	Filter Filter
	db     *gorm.DB
}

func ForUser(db *gorm.DB, u *models.User) *Scope {
	return &Scope{User: u, Filter: TurmaFilter(u), db: db}
}

func (s *Scope) Turmas() ([]models.Turma, error) {
	var turmas []models.Turma
	if err := s.Filter.Apply(s.db.Model(&models.Turma{})).Find(&turmas).Error; err != nil {
		return nil, err
	}
	return turmas, nil
}

func (s *Scope) TurmaIDs() ([]string, error) {
	turmas, err := s.Turmas()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(turmas))
	for _, t := range turmas {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// AlunoQuery devolve a query de alunos já recortada. empty=true sinaliza que
// o recorte é vazio e o handler pode responder lista vazia sem ir ao banco.
func (s *Scope) AlunoQuery() (tx *gorm.DB, empty bool, err error) {
	if s.Filter.Denied {
		return nil, true, nil
	}
	if s.Filter.All {
		return s.db.Model(&models.Aluno{}), false, nil
	}
	turmas, err := s.Turmas()
	if err != nil {
		return nil, false, err
	}
	ids := AlunoIDs(turmas)
	if len(ids) == 0 {
		return nil, true, nil
	}
	return s.db.Model(&models.Aluno{}).Where("id IN ? AND ativo = ?", ids, true), false, nil
}

// CanManageTurma decide mutação (chamada, roster, desistência) sobre uma
// turma específica: é a mesma regra de visibilidade aplicada em memória.
func (s *Scope) CanManageTurma(t *models.Turma) bool {
	return s.Filter.Matches(t)
}

// CanSeeAluno: admin sempre; demais papéis só via roster de turma visível.
func (s *Scope) CanSeeAluno(alunoID string) (bool, error) {
	if s.Filter.Denied {
		return false, nil
	}
	if s.Filter.All {
		return true, nil
	}
	turmas, err := s.Turmas()
	if err != nil {
		return false, err
	}
	for _, t := range turmas {
		if t.TemAluno(alunoID) {
			return true, nil
		}
	}
	return false, nil
}

// CanCreateAluno aplica a regra de cadastro: monitor nunca; instrutor e
// pedagogo precisam dos vínculos; admin sempre.
func CanCreateAluno(u *models.User) error {
	switch u.Tipo {
	case models.TipoAdmin:
		return nil
	case models.TipoInstrutor:
		if u.CursoID == nil || u.UnidadeID == nil {
			return ErrSemVinculo
		}
		return nil
	case models.TipoPedagogo:
		if u.UnidadeID == nil {
			return ErrSemVinculo
		}
		return nil
	case models.TipoMonitor:
		return ErrMonitorSoLeitura
	default:
		return ErrSemAcesso
	}
}
