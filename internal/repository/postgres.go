package repository

import (
	"context"
	"errors"
	"fmt"

	"predictor/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound marks lookups that matched no row
var ErrNotFound = errors.New("record not found")

// PostgresRepository handles all PostgreSQL operations
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a new Postgres repository
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// ---- Snapshot reads for the scoring engine ----

// FetchPredictions returns the full prediction snapshot
func (r *PostgresRepository) FetchPredictions(ctx context.Context) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.WithContext(ctx).Find(&predictions).Error
	return predictions, err
}

// FetchResults returns the full result snapshot
func (r *PostgresRepository) FetchResults(ctx context.Context) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).Find(&results).Error
	return results, err
}

// FetchUsers returns the full user snapshot. Only users in this snapshot are
// eligible to appear on the leaderboard.
func (r *PostgresRepository) FetchUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Find(&users).Error
	return users, err
}

// ---- Users ----

// CreateUser inserts a new user, assigning a fresh ID
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUser retrieves a user by ID
func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUserRole promotes or demotes a user
func (r *PostgresRepository) UpdateUserRole(ctx context.Context, id, role string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user and their predictions
func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Prediction{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---- Fixtures ----

// BulkInsertFixtures efficiently inserts fixtures in batches (CSV import)
func (r *PostgresRepository) BulkInsertFixtures(ctx context.Context, fixtures []models.Fixture, batchSize int) error {
	return r.db.WithContext(ctx).CreateInBatches(fixtures, batchSize).Error
}

// ListFixtures returns fixtures matching the filter, ordered by gameweek
func (r *PostgresRepository) ListFixtures(ctx context.Context, filter models.FixtureFilter) ([]models.Fixture, error) {
	q := r.db.WithContext(ctx).Model(&models.Fixture{})
	if filter.Gameweek != nil {
		q = q.Where("gameweek = ?", *filter.Gameweek)
	}
	if filter.HomeTeam != nil {
		q = q.Where("home_team = ?", *filter.HomeTeam)
	}
	if filter.AwayTeam != nil {
		q = q.Where("away_team = ?", *filter.AwayTeam)
	}
	if filter.Date != nil {
		q = q.Where("date = ?", *filter.Date)
	}

	var fixtures []models.Fixture
	err := q.Order("gameweek, date, kickoff_time").Find(&fixtures).Error
	return fixtures, err
}

// GetFixture retrieves a fixture by ID
func (r *PostgresRepository) GetFixture(ctx context.Context, id uint) (*models.Fixture, error) {
	var fixture models.Fixture
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&fixture).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &fixture, nil
}

// ---- Predictions ----

// UpsertPrediction creates or replaces a user's prediction for a fixture.
// The (user_id, fixture_id) unique index makes resubmission an update.
func (r *PostgresRepository) UpsertPrediction(ctx context.Context, prediction *models.Prediction) error {
	if prediction.ID == "" {
		prediction.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "fixture_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"gameweek", "predicted_home", "predicted_away", "updated_at"}),
	}).Create(prediction).Error
}

// ListPredictions returns predictions matching the filter
func (r *PostgresRepository) ListPredictions(ctx context.Context, filter models.PredictionFilter) ([]models.Prediction, error) {
	q := r.db.WithContext(ctx).Model(&models.Prediction{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.FixtureID != nil {
		q = q.Where("fixture_id = ?", *filter.FixtureID)
	}
	if filter.Gameweek != nil {
		q = q.Where("gameweek = ?", *filter.Gameweek)
	}

	var predictions []models.Prediction
	err := q.Order("gameweek, fixture_id").Find(&predictions).Error
	return predictions, err
}

// ---- Results ----

// UpsertResult records or corrects the official result for a fixture
func (r *PostgresRepository) UpsertResult(ctx context.Context, result *models.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fixture_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"gameweek", "actual_home", "actual_away", "updated_at"}),
	}).Create(result).Error
}

// ListResults returns results matching the filter
func (r *PostgresRepository) ListResults(ctx context.Context, filter models.ResultFilter) ([]models.Result, error) {
	q := r.db.WithContext(ctx).Model(&models.Result{})
	if filter.FixtureID != nil {
		q = q.Where("fixture_id = ?", *filter.FixtureID)
	}
	if filter.Gameweek != nil {
		q = q.Where("gameweek = ?", *filter.Gameweek)
	}

	var results []models.Result
	err := q.Order("gameweek, fixture_id").Find(&results).Error
	return results, err
}

// ---- Admin overview ----

// Counts returns table counts for the admin dashboard
func (r *PostgresRepository) Counts(ctx context.Context) (users, predictions, results, fixtures int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&users).Error; err != nil {
		return
	}
	if err = db.Model(&models.Prediction{}).Count(&predictions).Error; err != nil {
		return
	}
	if err = db.Model(&models.Result{}).Count(&results).Error; err != nil {
		return
	}
	err = db.Model(&models.Fixture{}).Count(&fixtures).Error
	return
}

// ScoredGameweeks returns the distinct gameweeks that have at least one result,
// ascending
func (r *PostgresRepository) ScoredGameweeks(ctx context.Context) ([]int, error) {
	var gameweeks []int
	err := r.db.WithContext(ctx).Model(&models.Result{}).
		Distinct("gameweek").Order("gameweek").Pluck("gameweek", &gameweeks).Error
	return gameweeks, err
}

// FixtureGameweeks returns the distinct gameweeks that have fixtures, ascending
func (r *PostgresRepository) FixtureGameweeks(ctx context.Context) ([]int, error) {
	var gameweeks []int
	err := r.db.WithContext(ctx).Model(&models.Fixture{}).
		Distinct("gameweek").Order("gameweek").Pluck("gameweek", &gameweeks).Error
	return gameweeks, err
}

// ---- Lifecycle ----

// Ping checks if database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate runs database migrations
func (r *PostgresRepository) AutoMigrate() error {
	err := r.db.AutoMigrate(
		&models.User{},
		&models.Fixture{},
		&models.Prediction{},
		&models.Result{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
