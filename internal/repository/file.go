package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/csshost/csshost/internal/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

type FileRepository interface {
	Create(file *model.File) error
	ByID(id string) (*model.File, error)
	ByOwner(ownerID string) ([]*model.File, error)
	ByOwnerAndName(ownerID, name string) (*model.File, error)
	All() ([]*model.File, error)
	Replace(oldID string, file *model.File) error
	Delete(id string) error
	UpdateLastEdited(id string, t time.Time) error
	UpdateSize(id string, size int64) error
	CountByOwner(ownerID string) (int64, error)
	Count() (int64, error)
	TotalSize() (int64, error)
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(file *model.File) error {
	query := `INSERT INTO files (id, owner_id, name, type, size_bytes, created_at, last_edited_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		file.ID,
		file.OwnerID,
		file.Name,
		file.Type,
		file.Size,
		file.CreatedAt,
		file.LastEditedAt,
	)

	return err
}

func (r *fileRepository) ByID(id string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1`

	err := r.db.Get(file, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

func (r *fileRepository) ByOwner(ownerID string) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE owner_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&files, query, ownerID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) ByOwnerAndName(ownerID, name string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE owner_id = $1 AND name = $2`

	err := r.db.Get(file, query, ownerID, name)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

func (r *fileRepository) All() ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files ORDER BY created_at DESC`

	err := r.db.Select(&files, query)
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Replace swaps the record holding a name for a new one in a single statement,
// so a re-upload never has a window where the name has no row or two rows.
// Owner and name stay as they are; the fresh record starts unedited.
func (r *fileRepository) Replace(oldID string, file *model.File) error {
	query := `UPDATE files
	          SET id = $1, type = $2, size_bytes = $3, created_at = $4, last_edited_at = NULL
	          WHERE id = $5`

	result, err := r.db.Exec(query,
		file.ID,
		file.Type,
		file.Size,
		file.CreatedAt,
		oldID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFileNotFound
	}

	return nil
}

func (r *fileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFileNotFound
	}

	return nil
}

func (r *fileRepository) UpdateLastEdited(id string, t time.Time) error {
	_, err := r.db.Exec(`UPDATE files SET last_edited_at = $1 WHERE id = $2`, t, id)
	return err
}

func (r *fileRepository) UpdateSize(id string, size int64) error {
	_, err := r.db.Exec(`UPDATE files SET size_bytes = $1 WHERE id = $2`, size, id)
	return err
}

func (r *fileRepository) CountByOwner(ownerID string) (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COUNT(*) FROM files WHERE owner_id = $1`, ownerID)
	return n, err
}

func (r *fileRepository) Count() (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COUNT(*) FROM files`)
	return n, err
}

func (r *fileRepository) TotalSize() (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COALESCE(SUM(size_bytes), 0) FROM files`)
	return n, err
}
