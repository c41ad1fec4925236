package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"predictor/internal/config"
	"predictor/internal/engine"
	"predictor/internal/models"
	"predictor/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	BatchSize      = 100
	ScoredWeeks    = 2 // gameweeks to generate results for
	UsernamePrefix = "player_"
)

func main() {
	log.Println("Starting seeder for Premier League Predictor...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	store := repository.NewPostgresRepository(db)

	if err := store.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	fixtures, err := importFixtures(ctx, store, cfg.Seeder.FixturesCSV)
	if err != nil {
		log.Fatalf("Failed to import fixtures: %v", err)
	}

	users, err := seedUsers(ctx, store, cfg.Seeder.DemoUsers)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	if err := seedPredictionsAndResults(ctx, store, users, fixtures); err != nil {
		log.Fatalf("Failed to seed predictions: %v", err)
	}

	printStandings(ctx, store)

	store.Close()
	log.Println("Seeder finished")
}

// importFixtures loads the season fixture list from CSV.
// Expected columns: week, date, day, time, home, away.
func importFixtures(ctx context.Context, store *repository.PostgresRepository, path string) ([]models.Fixture, error) {
	existing, err := store.ListFixtures(ctx, models.FixtureFilter{})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Printf("Fixtures already imported (%d), skipping CSV", len(existing))
		return existing, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s has no fixture rows", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"week", "home", "away", "date"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s missing column %q", path, required)
		}
	}

	fixtures := make([]models.Fixture, 0, len(records)-1)
	for _, row := range records[1:] {
		week, err := strconv.Atoi(row[col["week"]])
		if err != nil {
			return nil, fmt.Errorf("bad week value %q: %w", row[col["week"]], err)
		}
		f := models.Fixture{
			Gameweek: week,
			Date:     row[col["date"]],
			HomeTeam: row[col["home"]],
			AwayTeam: row[col["away"]],
		}
		if i, ok := col["day"]; ok {
			f.Day = row[i]
		}
		if i, ok := col["time"]; ok {
			f.KickoffTime = row[i]
		}
		if i, ok := col["venue"]; ok {
			f.Venue = row[i]
		}
		fixtures = append(fixtures, f)
	}

	startTime := time.Now()
	if err := store.BulkInsertFixtures(ctx, fixtures, BatchSize); err != nil {
		return nil, fmt.Errorf("bulk insert failed: %w", err)
	}
	log.Printf("Imported %d fixtures in %v", len(fixtures), time.Since(startTime))

	return store.ListFixtures(ctx, models.FixtureFilter{})
}

// seedUsers creates demo accounts, the first one as admin
func seedUsers(ctx context.Context, store *repository.PostgresRepository, count int) ([]models.User, error) {
	existing, err := store.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Printf("Users already seeded (%d), skipping", len(existing))
		return existing, nil
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		role := models.RoleUser
		if i == 0 {
			role = models.RoleAdmin
		}
		user := models.User{
			ID:       uuid.NewString(),
			Username: fmt.Sprintf("%s%d", UsernamePrefix, i+1),
			Email:    fmt.Sprintf("%s%d@example.com", UsernamePrefix, i+1),
			Role:     role,
		}
		if err := store.CreateUser(ctx, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	log.Printf("Created %d demo users", len(users))
	return users, nil
}

// seedPredictionsAndResults generates random predictions for every user on the
// first ScoredWeeks gameweeks and official results for those fixtures
func seedPredictionsAndResults(ctx context.Context, store *repository.PostgresRepository, users []models.User, fixtures []models.Fixture) error {
	predictions, err := store.FetchPredictions(ctx)
	if err != nil {
		return err
	}
	if len(predictions) > 0 {
		log.Printf("Predictions already seeded (%d), skipping", len(predictions))
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	seeded := 0
	for _, f := range fixtures {
		if f.Gameweek > ScoredWeeks {
			continue
		}

		for _, u := range users {
			pred := models.Prediction{
				UserID:        u.ID,
				FixtureID:     f.ID,
				Gameweek:      f.Gameweek,
				PredictedHome: rng.Intn(4),
				PredictedAway: rng.Intn(4),
			}
			if err := store.UpsertPrediction(ctx, &pred); err != nil {
				return err
			}
			seeded++
		}

		res := models.Result{
			FixtureID:  f.ID,
			Gameweek:   f.Gameweek,
			ActualHome: rng.Intn(4),
			ActualAway: rng.Intn(4),
		}
		if err := store.UpsertResult(ctx, &res); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d predictions with results for gameweeks 1-%d", seeded, ScoredWeeks)
	return nil
}

// printStandings shows the resulting top 10 as a sanity check
func printStandings(ctx context.Context, store *repository.PostgresRepository) {
	predictions, err := store.FetchPredictions(ctx)
	if err != nil {
		log.Printf("Failed to fetch predictions: %v", err)
		return
	}
	results, err := store.FetchResults(ctx)
	if err != nil {
		log.Printf("Failed to fetch results: %v", err)
		return
	}
	users, err := store.FetchUsers(ctx)
	if err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return
	}

	rows := engine.Rank(engine.Aggregate(predictions, results, users), users)

	log.Println("Top 10 standings:")
	for i, row := range rows {
		if i >= 10 {
			break
		}
		log.Printf("   %d. %s - %d pts", row.Rank, row.Player, row.TotalPoints)
	}
}

// initPostgres initializes PostgreSQL connection
func initPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}
