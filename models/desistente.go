package models

import "time"

type Desistente struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	AlunoID         string    `gorm:"size:36;not null;index" json:"aluno_id"`
	TurmaID         *string   `gorm:"size:36" json:"turma_id,omitempty"` // desistência pode ser geral
	DataDesistencia string    `gorm:"size:10;not null" json:"data_desistencia"`
	Motivo          string    `gorm:"type:text;not null" json:"motivo"`
	Observacoes     *string   `gorm:"type:text" json:"observacoes,omitempty"`
	RegistradoPor   string    `gorm:"size:36;not null" json:"registrado_por"`
	CreatedAt       time.Time `json:"created_at"`
}
