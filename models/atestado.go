package models

import "time"

// Atestado médico anexado a uma justificativa de falta. O arquivo fica em
// base64 na própria linha.
type Atestado struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Filename    string    `gorm:"size:255;not null" json:"filename"`
	ContentType string    `gorm:"size:60;not null" json:"content_type"`
	Data        string    `gorm:"type:text;not null" json:"-"`
	UploadedBy  string    `gorm:"size:36;not null" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
