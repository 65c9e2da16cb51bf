package models

import (
	"time"

	"github.com/lib/pq"
)

type Curso struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Nome          string         `gorm:"size:120;not null" json:"nome"`
	Descricao     *string        `gorm:"type:text" json:"descricao,omitempty"`
	CargaHoraria  int            `gorm:"not null" json:"carga_horaria"`
	Categoria     *string        `gorm:"size:60" json:"categoria,omitempty"`
	PreRequisitos *string        `gorm:"type:text" json:"pre_requisitos,omitempty"`
	DiasAula      pq.StringArray `gorm:"type:text[]" json:"dias_aula"` // "segunda".."domingo"
	Ativo         bool           `gorm:"not null;default:true" json:"ativo"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// DiasAulaPadrao é aplicado quando o cadastro não informa os dias de aula.
var DiasAulaPadrao = []string{"segunda", "terca", "quarta", "quinta"}
