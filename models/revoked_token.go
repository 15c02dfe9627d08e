package models

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken records a blacklisted refresh token by its jti claim.
// Rows older than ExpiresAt are dead weight only; the token they name
// would be rejected as expired anyway.
type RevokedToken struct {
	JTI       uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
