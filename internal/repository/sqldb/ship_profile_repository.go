package sqldb

import (
	"database/sql"
	"fmt"
	"time"

	"shipwatch/internal/model"
	"shipwatch/internal/repository"
)

// ShipProfileRepository implements repository.ShipProfileRepository.
type ShipProfileRepository struct {
	db *DB
}

// NewShipProfileRepository creates a new ship profile repository.
func NewShipProfileRepository(db *DB) *ShipProfileRepository {
	return &ShipProfileRepository{db: db}
}

// Insert adds a profile. A taken ship_id yields repository.ErrDuplicate.
func (r *ShipProfileRepository) Insert(profile *model.ShipProfile) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().Truncate(time.Second)
	}

	result, err := r.db.Conn().Exec(`
		INSERT INTO ship_profiles (category_id, category_name, ship_id, created_at)
		VALUES (?, ?, ?, ?)
	`, profile.CategoryID, profile.CategoryName, profile.ShipID, profile.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, fmt.Errorf("failed to insert ship profile: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read ship profile id: %w", err)
	}
	profile.ID = id
	return id, nil
}

// GetByID retrieves a profile by its ID. It returns nil when no row matches.
func (r *ShipProfileRepository) GetByID(id int64) (*model.ShipProfile, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var profile model.ShipProfile
	err := r.db.Conn().QueryRow(`
		SELECT id, category_id, category_name, ship_id, created_at
		FROM ship_profiles WHERE id = ?
	`, id).Scan(&profile.ID, &profile.CategoryID, &profile.CategoryName, &profile.ShipID, &profile.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ship profile: %w", err)
	}
	return &profile, nil
}

// GetAll returns every profile, newest first.
func (r *ShipProfileRepository) GetAll() ([]model.ShipProfile, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, category_id, category_name, ship_id, created_at
		FROM ship_profiles ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ship profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.ShipProfile{}
	for rows.Next() {
		var p model.ShipProfile
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.ShipID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ship profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Count returns the number of stored profiles.
func (r *ShipProfileRepository) Count() (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRow("SELECT COUNT(*) FROM ship_profiles").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ship profiles: %w", err)
	}
	return count, nil
}

// Update overwrites category and ship_id of an existing profile.
func (r *ShipProfileRepository) Update(profile *model.ShipProfile) error {
	r.db.Lock()
	defer r.db.Unlock()

	var exists int
	err := r.db.Conn().QueryRow("SELECT 1 FROM ship_profiles WHERE id = ?", profile.ID).Scan(&exists)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check ship profile: %w", err)
	}

	_, err = r.db.Conn().Exec(`
		UPDATE ship_profiles SET category_id = ?, category_name = ?, ship_id = ?
		WHERE id = ?
	`, profile.CategoryID, profile.CategoryName, profile.ShipID, profile.ID)
	if err != nil {
		if isDuplicate(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to update ship profile: %w", err)
	}
	return nil
}

// Delete removes a profile.
func (r *ShipProfileRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec("DELETE FROM ship_profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete ship profile: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
