package gormstore

import (
	"errors"

	"gorm.io/gorm"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
)

// BlockUser records a directed block. Idempotent; severing any existing
// connection between the pair happens in the same transaction so the state
// never lands half-applied.
func (s *Store) BlockUser(blockerID, blockedID uint) (*models.BlockedUser, error) {
	if blockerID == blockedID {
		return nil, apperr.ErrSameUser
	}

	var existing models.BlockedUser
	err := s.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	block := models.BlockedUser{BlockerID: blockerID, BlockedID: blockedID}
	u1, u2 := orderPair(blockerID, blockedID)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&block).Error; err != nil {
			return err
		}
		return tx.Where("user_id1 = ? AND user_id2 = ?", u1, u2).Delete(&models.Connection{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (s *Store) UnblockUser(blockerID, blockedID uint) error {
	return s.db.
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.BlockedUser{}).Error
}

// IsBlocked is symmetric: a block in either direction counts.
func (s *Store) IsBlocked(a, b uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.BlockedUser{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) GetBlockedUsers(blockerID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Where("id IN (?)", s.db.Model(&models.BlockedUser{}).Select("blocked_id").Where("blocker_id = ?", blockerID)).
		Find(&users).Error
	return users, err
}
