package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/config"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

// Connect abre a conexão e garante o schema. O handle é devolvido ao caller;
// nada de estado global de conexão.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Unidade{},
		&models.Curso{},
		&models.Aluno{},
		&models.Turma{},
		&models.Chamada{},
		&models.Desistente{},
		&models.Atestado{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
