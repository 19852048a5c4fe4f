package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/Luisxcv/neuro-insight-agenda/internal/db"
)

// Default credentials for local development only.
const (
	adminEmail    = "admin@clinic.local"
	adminPassword = "admin123"
	demoPassword  = "doctor123"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAdmin(context.Background(), pool); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, 20); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatientDirectory(context.Background(), pool, 500); err != nil {
		log.Fatalf("seed patient directory: %v", err)
	}

	log.Println("seed complete")
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, display_name, specialty, role, is_approved, is_active, created_at)
		VALUES ($1, $2, $3, 'Administrator', '', 'admin', true, true, now())
		ON CONFLICT (lower(email)) DO NOTHING
	`, uuid.New(), adminEmail, string(hash))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		log.Println("admin account already present, skipping")
	} else {
		log.Printf("admin account created: %s", adminEmail)
	}
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d doctors", count)

	specialties := []string{
		"Neurology",
		"Neurosurgery",
		"Radiology",
		"Cardiology",
		"General Practice",
		"Psychiatry",
		"Endocrinology",
		"Pediatrics",
	}

	// One shared hash keeps seeding fast; these are demo accounts.
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("dr.%s%d@clinic.local", strings.ToLower(gofakeit.LastName()), i)
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (id, email, password_hash, display_name, specialty, role, is_approved, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, 'doctor', true, true, now())
			ON CONFLICT (lower(email)) DO NOTHING
		`, uuid.New(), email, string(hash), "Dr. "+name, spec)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func seedPatientDirectory(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patient directory entries", count)

	const batchSize = 100

	results := []string{"normal", "abnormal", "pending"}
	statuses := []string{"active", "active", "active", "inactive"}

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			name := gofakeit.Name()
			email := gofakeit.Email()
			phone := gofakeit.Phone()
			status := statuses[gofakeit.Number(0, len(statuses)-1)]
			result := results[gofakeit.Number(0, len(results)-1)]

			var lastVisit, nextAppt *time.Time
			if gofakeit.Bool() {
				t := time.Now().AddDate(0, 0, -gofakeit.Number(1, 180))
				lastVisit = &t
			}
			if gofakeit.Number(0, 2) == 0 {
				t := time.Now().AddDate(0, 0, gofakeit.Number(1, 60))
				nextAppt = &t
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, name, email, phone, last_visit, next_appointment, status, total_analyses, last_analysis_result, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
			`, uuid.New(), name, email, phone, lastVisit, nextAppt, status, gofakeit.Number(0, 12), result)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patient directory seeded: %d/%d", end, count)
	}

	log.Println("patient directory seeded")
	return nil
}
