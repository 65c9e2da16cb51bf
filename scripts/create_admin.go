// scripts/create_admin.go — semeia o admin padrão sem subir o servidor.
// Uso: go run ./scripts
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/config"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/database"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

func main() {
	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("falha ao conectar no banco: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@sistema.com"
	}
	senha := os.Getenv("ADMIN_SENHA")
	if senha == "" {
		senha = "admin123"
	}

	var existente models.User
	if err := db.Where("email = ?", email).First(&existente).Error; err == nil {
		fmt.Printf("admin %s já existe, nada a fazer\n", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("falha ao gerar hash: %v", err)
	}

	admin := models.User{
		ID:             uuid.NewString(),
		Nome:           "Administrador",
		Email:          email,
		Senha:          string(hash),
		Tipo:           models.TipoAdmin,
		Ativo:          true,
		Status:         models.StatusAtivo,
		PrimeiroAcesso: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("falha ao criar admin: %v", err)
	}

	fmt.Printf("admin criado: %s\n", email)
}
