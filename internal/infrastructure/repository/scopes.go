package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ownedBy limits a query to rows of one owner. A nil owner matches nothing.
func ownedBy(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("user_id = ?", ownerID)
	}
}

// paginate applies offset and limit from validated params.
func paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}
