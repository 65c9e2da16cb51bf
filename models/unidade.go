package models

import "time"

type Unidade struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Nome        string    `gorm:"size:120;not null" json:"nome"`
	Endereco    string    `gorm:"type:text;not null" json:"endereco"`
	Telefone    *string   `gorm:"size:20" json:"telefone,omitempty"`
	Responsavel *string   `gorm:"size:120" json:"responsavel,omitempty"`
	Email       *string   `gorm:"size:120" json:"email,omitempty"`
	Ativo       bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
