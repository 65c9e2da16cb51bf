package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Presenca é o registro individual de um aluno dentro da chamada.
type Presenca struct {
	Presente      bool   `json:"presente"`
	Justificativa string `json:"justificativa"`
	AtestadoID    string `json:"atestado_id"`
	HoraRegistro  string `json:"hora_registro"` // HH:MM, só para presentes
}

// PresenceMap guarda aluno_id -> presença como jsonb.
type PresenceMap map[string]Presenca

func (m PresenceMap) Value() (driver.Value, error) {
	if m == nil {
		m = PresenceMap{}
	}
	return json.Marshal(m)
}

func (m *PresenceMap) Scan(src any) error {
	if src == nil {
		*m = PresenceMap{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("presencas: tipo inesperado no scan")
	}
	return json.Unmarshal(b, m)
}

// Chamada: um registro por turma por dia. O índice único composto garante a
// unicidade no banco mesmo sob requisições concorrentes.
type Chamada struct {
	ID              string      `gorm:"primaryKey;size:36" json:"id"`
	TurmaID         string      `gorm:"size:36;not null;uniqueIndex:idx_chamada_turma_data" json:"turma_id"`
	InstrutorID     string      `gorm:"size:36;not null" json:"instrutor_id"`
	Data            string      `gorm:"size:10;not null;uniqueIndex:idx_chamada_turma_data" json:"data"` // YYYY-MM-DD
	Horario         string      `gorm:"size:5;not null" json:"horario"`
	ObservacoesAula *string     `gorm:"type:text" json:"observacoes_aula,omitempty"`
	Presencas       PresenceMap `gorm:"type:jsonb;not null" json:"presencas"`
	TotalPresentes  int         `gorm:"not null;default:0" json:"total_presentes"`
	TotalFaltas     int         `gorm:"not null;default:0" json:"total_faltas"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Totais derivados do mapa de presenças, gravados junto no momento da criação.
func (m PresenceMap) Totais() (presentes, faltas int) {
	for _, p := range m {
		if p.Presente {
			presentes++
		} else {
			faltas++
		}
	}
	return presentes, faltas
}
