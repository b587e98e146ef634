package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"caseiq/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Provisions an account directly in the database, bypassing the signup flow
// and its inactive-by-default rule. Meant for bootstrapping admins.
func main() {
	fullName := flag.String("name", "", "full name")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "plaintext password")
	role := flag.String("role", models.RoleAnalyst, "Admin or Analyst")
	flag.Parse()

	if *fullName == "" || *email == "" || *password == "" {
		fmt.Println("usage: go run ./cmd/create_user -name <name> -email <email> -password <password> [-role Admin|Analyst]")
		os.Exit(2)
	}
	if *role != models.RoleAdmin && *role != models.RoleAnalyst {
		log.Fatalf("invalid role %q", *role)
	}

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var existing models.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", *email, existing.ID)
		os.Exit(0)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{
		FullName:     *fullName,
		Email:        *email,
		PasswordHash: hash,
		Role:         *role,
		Status:       models.StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created %s user %s id=%d\n", user.Role, user.Email, user.ID)
}
