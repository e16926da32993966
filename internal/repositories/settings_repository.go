package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gold_billing_backend/internal/models"
)

// SettingsRepository defines the interface for company configuration rows.
type SettingsRepository interface {
	GetSettings() ([]models.Setting, error)
	GetSettingByKey(key string) (*models.Setting, error)
	UpsertSetting(executor SQLExecutor, setting *models.Setting) error
}

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSettings() ([]models.Setting, error) {
	settings := []models.Setting{}
	query := `SELECT id, setting_key, setting_value, description, created_at, updated_at
	          FROM settings ORDER BY setting_key`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying settings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning setting: %v", ErrDatabaseError, err)
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating setting rows: %v", ErrDatabaseError, err)
	}
	return settings, nil
}

func (r *settingsRepository) GetSettingByKey(key string) (*models.Setting, error) {
	setting := &models.Setting{}
	query := `SELECT id, setting_key, setting_value, description, created_at, updated_at
	          FROM settings WHERE setting_key = $1`
	err := r.db.QueryRow(query, key).Scan(
		&setting.ID, &setting.SettingKey, &setting.SettingValue, &setting.Description,
		&setting.CreatedAt, &setting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting setting by key %s: %v", ErrDatabaseError, key, err)
	}
	return setting, nil
}

func (r *settingsRepository) UpsertSetting(executor SQLExecutor, setting *models.Setting) error {
	now := time.Now()
	query := `INSERT INTO settings (setting_key, setting_value, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (setting_key)
	          DO UPDATE SET setting_value = EXCLUDED.setting_value, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at, updated_at`

	err := executor.QueryRow(query, setting.SettingKey, setting.SettingValue, setting.Description, now, now).
		Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: upserting setting %s: %v", ErrDatabaseError, setting.SettingKey, err)
	}
	return nil
}
