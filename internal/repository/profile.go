package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/csshost/csshost/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrQuotaExceeded   = errors.New("storage quota exceeded")
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	Create(profile *model.Profile) error
	All() ([]*model.Profile, error)
	SetSuspended(userID string, suspended bool) error
	ReserveStorage(userID string, delta, quota int64) error
	ReleaseStorage(userID string, bytes int64) error
	Count() (int64, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.Role == "" {
		profile.Role = model.RoleStandard
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, role, storage_used, suspended, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, profile.ID, profile.UserID, profile.Role, profile.StorageUsed, profile.Suspended, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) All() ([]*model.Profile, error) {
	var profiles []*model.Profile
	err := r.db.Select(&profiles, `SELECT * FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) SetSuspended(userID string, suspended bool) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET suspended = $1, updated_at = $2
		WHERE user_id = $3
	`, suspended, time.Now(), userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ReserveStorage atomically adds delta to the account's storage_used, but only
// when the result stays within quota and never drops below zero. A single
// conditional UPDATE instead of read-modify-write, so concurrent uploads by
// the same account cannot lose updates.
func (r *profileRepository) ReserveStorage(userID string, delta, quota int64) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET storage_used = storage_used + $1, updated_at = $2
		WHERE user_id = $3
		  AND storage_used + $1 <= $4
		  AND storage_used + $1 >= 0
	`, delta, time.Now(), userID, quota)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish a missing profile from a quota rejection.
		var exists int
		err = r.db.Get(&exists, `SELECT COUNT(*) FROM profiles WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrProfileNotFound
		}
		return fmt.Errorf("reserving %d bytes for %s: %w", delta, userID, ErrQuotaExceeded)
	}

	return nil
}

// ReleaseStorage gives bytes back after a delete or a failed write. The floor
// at zero guards against double releases.
func (r *profileRepository) ReleaseStorage(userID string, bytes int64) error {
	_, err := r.db.Exec(`
		UPDATE profiles
		SET storage_used = CASE WHEN storage_used - $1 < 0 THEN 0 ELSE storage_used - $1 END,
		    updated_at = $2
		WHERE user_id = $3
	`, bytes, time.Now(), userID)
	return err
}

func (r *profileRepository) Count() (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COUNT(*) FROM profiles`)
	return n, err
}
