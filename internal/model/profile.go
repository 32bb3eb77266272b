package model

import "time"

const (
	RoleStandard   = "standard"
	RoleSuperadmin = "superadmin"
)

type Profile struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Role        string    `db:"role"`
	StorageUsed int64     `db:"storage_used"` // sum of size_bytes across the account's live files
	Suspended   bool      `db:"suspended"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleSuperadmin
}
