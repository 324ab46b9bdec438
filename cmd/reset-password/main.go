package main

import (
	"context"
	"flag"
	"log"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database"
)

func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new password (min 8 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("usage: reset-password -email <email> -password <new password, min 8 chars>")
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN(), cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	users := repository.NewUserRepo(db)
	ctx := context.Background()

	// 3. Find user
	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("user %s not found: %v", *email, err)
	}

	// 4. Hash new password
	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// 5. Update
	if err := users.UpdatePassword(ctx, user.ID, hashed.Password); err != nil {
		log.Fatalf("failed to update password: %v", err)
	}

	log.Printf("password for %s has been reset", user.Email)
}
