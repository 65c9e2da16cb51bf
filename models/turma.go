package models

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	ErrTurmaLotada    = errors.New("turma está lotada")
	ErrAlunoJaNaTurma = errors.New("aluno já está na turma")
	ErrAlunoForaTurma = errors.New("aluno não está na turma")
)

type Turma struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Nome          string         `gorm:"size:120;not null" json:"nome"`
	UnidadeID     string         `gorm:"size:36;not null;index" json:"unidade_id"`
	CursoID       string         `gorm:"size:36;not null;index" json:"curso_id"`
	InstrutorID   string         `gorm:"size:36;not null;index" json:"instrutor_id"`
	PedagogoID    *string        `gorm:"size:36" json:"pedagogo_id,omitempty"`
	MonitorID     *string        `gorm:"size:36" json:"monitor_id,omitempty"`
	AlunosIDs     pq.StringArray `gorm:"type:text[]" json:"alunos_ids"`
	DataInicio    string         `gorm:"size:10;not null" json:"data_inicio"` // YYYY-MM-DD
	DataFim       string         `gorm:"size:10;not null" json:"data_fim"`
	HorarioInicio string         `gorm:"size:5;not null" json:"horario_inicio"` // HH:MM
	HorarioFim    string         `gorm:"size:5;not null" json:"horario_fim"`
	DiasSemana    pq.StringArray `gorm:"type:text[]" json:"dias_semana"`
	VagasTotal    int            `gorm:"not null;default:30" json:"vagas_total"`
	VagasOcupadas int            `gorm:"not null;default:0" json:"vagas_ocupadas"`
	Ciclo         *string        `gorm:"size:10" json:"ciclo,omitempty"` // ex.: "01/2025"
	Ativo         bool           `gorm:"not null;default:true" json:"ativo"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// AddAluno mantém o invariante: tamanho do roster ≤ vagas_total e
// vagas_ocupadas acompanhando o roster.
func (t *Turma) AddAluno(alunoID string) error {
	for _, id := range t.AlunosIDs {
		if id == alunoID {
			return ErrAlunoJaNaTurma
		}
	}
	if len(t.AlunosIDs) >= t.VagasTotal {
		return ErrTurmaLotada
	}
	t.AlunosIDs = append(t.AlunosIDs, alunoID)
	t.VagasOcupadas = len(t.AlunosIDs)
	return nil
}

func (t *Turma) RemoveAluno(alunoID string) error {
	for i, id := range t.AlunosIDs {
		if id == alunoID {
			t.AlunosIDs = append(t.AlunosIDs[:i], t.AlunosIDs[i+1:]...)
			t.VagasOcupadas = len(t.AlunosIDs)
			return nil
		}
	}
	return ErrAlunoForaTurma
}

func (t *Turma) TemAluno(alunoID string) bool {
	for _, id := range t.AlunosIDs {
		if id == alunoID {
			return true
		}
	}
	return false
}
