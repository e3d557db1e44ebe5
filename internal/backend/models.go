package backend

import (
	"time"

	"gorm.io/datatypes"
)

// Resource is one console record, stored as its JSON document.
type Resource struct {
	Kind      string         `gorm:"primaryKey;size:64"`
	ID        string         `gorm:"primaryKey;size:128"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
}

func (Resource) TableName() string { return "resources" }

// Account holds the sign-in secret of a user resource.
type Account struct {
	UserID       string `gorm:"primaryKey;size:128"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:32;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Account) TableName() string { return "accounts" }

// Upload tracks a presigned slot and, once the binary arrives, its location.
type Upload struct {
	ID          string `gorm:"primaryKey;size:26"`
	Name        string `gorm:"not null"`
	ContentType string
	Size        int64
	Path        string
	ParentKind  string    `gorm:"size:32;not null;default:''"`
	ParentID    string    `gorm:"index;not null;default:''"`
	ExpiresAt   time.Time `gorm:"not null"`
	StoredAt    *time.Time
	CreatedAt   time.Time
}

func (Upload) TableName() string { return "uploads" }

// Models lists every table the backend owns.
func Models() []any {
	return []any{&Resource{}, &Account{}, &Upload{}}
}
