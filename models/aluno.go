package models

import "time"

const (
	AlunoAtivo      = "ativo"
	AlunoDesistente = "desistente"
	AlunoConcluido  = "concluido"
	AlunoSuspenso   = "suspenso"
)

type Aluno struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	Nome                string    `gorm:"size:120;not null" json:"nome"`
	CPF                 string    `gorm:"uniqueIndex;size:14;not null" json:"cpf"`
	Matricula           *string   `gorm:"size:20" json:"matricula,omitempty"`
	DataNascimento      *string   `gorm:"size:10" json:"data_nascimento,omitempty"` // YYYY-MM-DD
	RG                  *string   `gorm:"size:20" json:"rg,omitempty"`
	Genero              *string   `gorm:"size:20" json:"genero,omitempty"`
	Telefone            *string   `gorm:"size:20" json:"telefone,omitempty"`
	Email               *string   `gorm:"size:120" json:"email,omitempty"`
	Endereco            *string   `gorm:"type:text" json:"endereco,omitempty"`
	NomeResponsavel     *string   `gorm:"size:120" json:"nome_responsavel,omitempty"`
	TelefoneResponsavel *string   `gorm:"size:20" json:"telefone_responsavel,omitempty"`
	Observacoes         *string   `gorm:"type:text" json:"observacoes,omitempty"`
	Ativo               bool      `gorm:"not null;default:true" json:"ativo"`
	Status              string    `gorm:"size:20;not null;default:'ativo'" json:"status"`

	// Quem cadastrou; a visibilidade do instrutor depende do vínculo com turma,
	// mas o autor fica registrado para auditoria.
	CreatedBy     *string `gorm:"size:36" json:"created_by,omitempty"`
	CreatedByNome *string `gorm:"size:120" json:"created_by_nome,omitempty"`
	CreatedByTipo *string `gorm:"size:20" json:"created_by_tipo,omitempty"`

	// Preenchidos pela importação CSV quando a linha traz curso/turma.
	CursoID    *string `gorm:"size:36" json:"curso_id,omitempty"`
	TurmaID    *string `gorm:"size:36" json:"turma_id,omitempty"`
	StatusTurma *string `gorm:"size:20" json:"status_turma,omitempty"` // alocado | nao_alocado

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
