package cmd

import (
	"fmt"
	"log"

	"github.com/averoza/stockroom/internal/auth"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if cfg.Database.UseMemoryStore() {
			log.Fatal("seed: no database source configured (in-memory backend starts empty)")
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"audit_logs", "stock_movements", "requisitions", "materials", "users"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		staffHash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		employeeHash, err := auth.HashEmployeePassword(password)
		if err != nil {
			log.Fatalf("failed to derive employee credential: %v", err)
		}

		staff := []struct {
			Email     string
			FirstName string
			LastName  string
			Role      string
			Hash      string
		}{
			{"admin@stockroom.local", "Ada", "Warden", "ADMIN", string(staffHash)},
			{"stock@stockroom.local", "Sam", "Keeper", "STOCK", string(staffHash)},
			{"employee@stockroom.local", "Eve", "Porter", "EMPLOYEE", employeeHash},
		}

		for _, u := range staff {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)", u.Email).Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Email)
				continue
			}

			if _, err := db.Exec(
				"INSERT INTO users (email, first_name, last_name, password_hash, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, now(), now())",
				u.Email, u.FirstName, u.LastName, u.Hash, u.Role,
			); err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email, "role:", u.Role)
		}

		materials := []struct {
			Name         string
			Code         string
			Unit         string
			UnitPrice    int64
			MinimumStock int64
		}{
			{"M8 Bolt", "BOLT-M8", "pcs", 120, 50},
			{"M8 Nut", "NUT-M8", "pcs", 80, 50},
			{"Work Gloves", "GLOVE-STD", "pair", 3500, 10},
			{"Packing Tape", "TAPE-48", "roll", 1500, 20},
		}

		for _, m := range materials {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM materials WHERE code = $1", m.Code).Scan(&exists); err == nil {
				fmt.Println("material already exists:", m.Code)
				continue
			}

			if _, err := db.Exec(
				"INSERT INTO materials (name, code, unit, unit_price, minimum_stock, current_stock, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, 0, now(), now())",
				m.Name, m.Code, m.Unit, m.UnitPrice, m.MinimumStock,
			); err != nil {
				log.Fatalf("failed to insert material %s: %v", m.Code, err)
			}
			fmt.Println("Seeded material:", m.Code)
		}

		fmt.Println("Seeding complete")
	},
}
