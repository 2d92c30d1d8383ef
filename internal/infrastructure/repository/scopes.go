package repository

import (
	"time"

	"gorm.io/gorm"
)

// Expired returns a GORM scope matching rows whose expires_at is before now
func Expired(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("expires_at < ?", now)
	}
}

// Unexpired returns a GORM scope matching rows still valid at now
func Unexpired(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("expires_at >= ?", now)
	}
}
