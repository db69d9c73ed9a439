package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/playmatatu/snooker/internal/admin"
	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	displayName := flag.String("name", "Admin", "display name")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *username == "" {
		*username = "admin"
		log.Printf("Using default admin username: %s", *username)
	}
	if *password == "" {
		*password = "change-me-in-production"
		log.Printf("WARNING: Using default admin password. Set ADMIN_PASSWORD in production!")
	}

	roles := []string{"super_admin"}

	if err := admin.CreateAdminAccount(db, *username, *displayName, *password, roles); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("✓ Admin account created/updated successfully")
	log.Printf("  Username: %s", *username)
	log.Printf("  Display Name: %s", *displayName)
	log.Printf("  Roles: %v", roles)
	log.Println("\nLog in with POST /api/v1/admin/login")
}
