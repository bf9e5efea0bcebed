// create-admin provisions the first admin profile so a fresh deployment can
// log in. Usage:
//
//	go run ./cmd/create-admin -email admin@bank.example -password 'secret' -first Admin -last User
package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"corpbank-portal-api/config"
	"corpbank-portal-api/models"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "initial password (min 8 chars)")
	first := flag.String("first", "Portal", "first name")
	last := flag.String("last", "Admin", "last name")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("usage: create-admin -email <email> -password <password, min 8 chars>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	config.InitDB()

	var existing models.Profile
	if err := config.DB.Where("email = ? AND delete_at IS NULL", *email).
		First(&existing).Error; err == nil {
		log.Fatalf("profile %s already exists", *email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now()
	profile := models.Profile{
		ProfileID: uuid.NewString(),
		Email:     *email,
		Password:  string(hashed),
		FirstName: *first,
		LastName:  *last,
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	if err := config.DB.Create(&profile).Error; err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	log.Printf("admin %s created (%s)", profile.Email, profile.ProfileID)
}
