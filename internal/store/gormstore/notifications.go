package gormstore

import (
	"github.com/google/uuid"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
)

func (s *Store) CreateNotification(n *models.Notification) error {
	return s.db.Create(n).Error
}

func (s *Store) GetUserNotifications(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (s *Store) MarkNotificationRead(id uuid.UUID, userID uint) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotificationNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(userID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *Store) DeleteNotification(id uuid.UUID, userID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotificationNotFound
	}
	return nil
}
