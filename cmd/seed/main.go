package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindwellhq/wellness-booking/internal/db"
	"github.com/mindwellhq/wellness-booking/internal/resources"
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

	if err := seedSlots(context.Background(), pool, 30); err != nil {
		log.Fatalf("seed slots: %v", err)
	}
	if err := seedContent(context.Background(), pool); err != nil {
		log.Fatalf("seed content: %v", err)
	}
	if err := seedDemoUser(context.Background(), pool); err != nil {
		log.Fatalf("seed demo user: %v", err)
	}

	log.Println("seed complete")
}

// seedSlots creates four bookable slots per day for the coming days.
func seedSlots(ctx context.Context, pool *pgxpool.Pool, days int) error {
	log.Printf("seeding slots for %d days", days)

	hours := []int{9, 11, 15, 17}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for d := 1; d <= days; d++ {
		day := today.AddDate(0, 0, d)
		for _, h := range hours {
			_, err := tx.Exec(ctx, `
				INSERT INTO session_slots (start_at, is_available, created_at)
				VALUES ($1, true, now())
				ON CONFLICT (start_at) DO NOTHING
			`, day.Add(time.Duration(h)*time.Hour))
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("slots seeded")
	return nil
}

func seedContent(ctx context.Context, pool *pgxpool.Pool) error {
	repo := resources.NewPgRepository(pool)

	// Content has no natural upsert; skip if a previous run already seeded it.
	existing, err := repo.CountArticles(ctx, "")
	if err != nil {
		return err
	}
	if existing > 0 {
		log.Println("content already seeded, skipping")
		return nil
	}
	log.Println("seeding articles and videos")

	titles := []string{
		"Understanding Anxiety",
		"Five Breathing Exercises That Work",
		"Sleep Hygiene Basics",
		"Building a Mindfulness Habit",
		"When to Seek Professional Help",
		"Managing Workplace Stress",
		"The Science of Gratitude",
	}
	for _, title := range titles {
		_, err := repo.CreateArticle(ctx, &resources.Article{
			Title:   title,
			Slug:    resources.Slugify(title),
			Summary: gofakeit.Sentence(12),
			Content: gofakeit.Paragraph(4, 5, 12, "\n\n"),
		})
		if err != nil {
			return err
		}
	}

	videos := []string{
		"Guided Body Scan",
		"Ten Minute Morning Meditation",
		"Progressive Muscle Relaxation",
	}
	for _, title := range videos {
		_, err := repo.CreateVideo(ctx, &resources.Video{
			Title:       title,
			Slug:        resources.Slugify(title),
			Description: gofakeit.Sentence(10),
			VideoURL:    "https://videos.mindwell.example/" + resources.Slugify(title),
		})
		if err != nil {
			return err
		}
	}

	log.Println("content seeded")
	return nil
}

// seedDemoUser fills a month of mood and activity history so the dashboard
// has something to show.
func seedDemoUser(ctx context.Context, pool *pgxpool.Pool) error {
	email := os.Getenv("SEED_USER_EMAIL")
	if email == "" {
		email = "demo@mindwell.example"
	}
	log.Printf("seeding history for %s", email)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	moods := []int{4, 5, 6, 7, 8, 8, 9}
	for i := 0; i < 30; i++ {
		day := today.AddDate(0, 0, -i)

		_, err := tx.Exec(ctx, `
			INSERT INTO mood_entries (user_email, score, date, note, created_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (user_email, date) DO NOTHING
		`, email, moods[gofakeit.Number(0, len(moods)-1)], day,
			fmt.Sprintf("Sample mood entry for %s", day.Format("2006-01-02")))
		if err != nil {
			return err
		}

		// Leave occasional gaps so the streak math has something to do.
		if i%5 == 4 {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO activities (user_email, action, timestamp)
			VALUES ($1, 'login', $2)
		`, email, day.Add(9*time.Hour))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("demo history seeded")
	return nil
}
