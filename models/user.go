package models

import "time"

// Papéis aceitos no sistema. Qualquer outro valor não enxerga nada.
const (
	TipoAdmin     = "admin"
	TipoInstrutor = "instrutor"
	TipoPedagogo  = "pedagogo"
	TipoMonitor   = "monitor"
)

const (
	StatusAtivo    = "ativo"
	StatusPendente = "pendente"
	StatusInativo  = "inativo"
)

type User struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Nome             string     `gorm:"size:120;not null" json:"nome"`
	Email            string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Senha            string     `gorm:"not null" json:"-"` // hash bcrypt
	Tipo             string     `gorm:"size:20;not null" json:"tipo"`
	Ativo            bool       `gorm:"not null;default:true" json:"ativo"`
	Status           string     `gorm:"size:20;not null;default:'pendente'" json:"status"`
	PrimeiroAcesso   bool       `gorm:"not null;default:true" json:"primeiro_acesso"`
	TokenConfirmacao *string    `gorm:"size:36" json:"-"`
	UnidadeID        *string    `gorm:"size:36" json:"unidade_id,omitempty"` // instrutor/pedagogo/monitor
	CursoID          *string    `gorm:"size:36" json:"curso_id,omitempty"`
	Telefone         *string    `gorm:"size:20" json:"telefone,omitempty"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
