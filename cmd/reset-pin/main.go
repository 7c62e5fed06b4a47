// Command reset-pin rewrites an operator's login code directly in the
// record store. Operational tool for when a PIN is forgotten; users are
// otherwise read-only after seeding.
//
// Usage: reset-pin <user-id> <new-pin>
package main

import (
	"fmt"
	"log"
	"os"

	"go-maquis-pos/internal/model"
	"go-maquis-pos/internal/store"
	"go-maquis-pos/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: reset-pin <user-id> <new-pin>")
		os.Exit(1)
	}
	userID, newPIN := os.Args[1], os.Args[2]

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	db := database.ConnectDB()
	recordStore := store.NewGorm(db)

	var users []model.User
	if err := recordStore.Load(store.KeyUsers, &users); err != nil {
		log.Fatal("Failed to load users: ", err)
	}

	for i := range users {
		if users[i].ID != userID {
			continue
		}
		if err := users[i].SetPIN(newPIN); err != nil {
			log.Fatal("Failed to hash PIN: ", err)
		}
		if err := recordStore.Save(store.KeyUsers, users); err != nil {
			log.Fatal("Failed to save users: ", err)
		}
		log.Printf("PIN updated for %s (%s)", users[i].Name, userID)
		return
	}

	log.Fatalf("User not found: %s", userID)
}
