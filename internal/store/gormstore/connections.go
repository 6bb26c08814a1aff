package gormstore

import (
	"errors"

	"gorm.io/gorm"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
)

// CreateConnectionRequest fails closed on self-requests, blocks in either
// direction, and duplicate requests.
func (s *Store) CreateConnectionRequest(requesterID, requesteeID uint) (*models.ConnectionRequest, error) {
	if requesterID == requesteeID {
		return nil, apperr.ErrSameUser
	}
	blocked, err := s.IsBlocked(requesterID, requesteeID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperr.ErrUserBlocked
	}
	if _, err := s.GetUserByID(requesteeID); err != nil {
		return nil, err
	}

	var count int64
	err = s.db.Model(&models.ConnectionRequest{}).
		Where("(requester_id = ? AND requestee_id = ?) OR (requester_id = ? AND requestee_id = ?)",
			requesterID, requesteeID, requesteeID, requesterID).
		Where("status = ?", models.ConnectionPending).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.ErrRequestExists
	}
	connected, err := s.AreConnected(requesterID, requesteeID)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, apperr.ErrRequestExists
	}

	req := models.ConnectionRequest{
		RequesterID: requesterID,
		RequesteeID: requesteeID,
		Status:      models.ConnectionPending,
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) GetReceivedConnectionRequests(userID uint) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := s.db.Where("requestee_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (s *Store) GetSentConnectionRequests(userID uint) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := s.db.Where("requester_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// UpdateConnectionRequest accepts or rejects a pending request. Only the
// requestee may answer; acceptance creates the Connection row in the same
// transaction.
func (s *Store) UpdateConnectionRequest(requestID uint, actor uint, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	if status != models.ConnectionAccepted && status != models.ConnectionRejected {
		return nil, apperr.InvalidArg("status must be accepted or rejected")
	}

	var req models.ConnectionRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrRequestNotFound
		}
		return nil, err
	}
	if req.RequesteeID != actor {
		return nil, apperr.ErrNotRequestee
	}
	if req.Status != models.ConnectionPending {
		return nil, apperr.FailedPrecondition("request already answered")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&req).Update("status", status).Error; err != nil {
			return err
		}
		if status == models.ConnectionAccepted {
			u1, u2 := orderPair(req.RequesterID, req.RequesteeID)
			return tx.Create(&models.Connection{UserID1: u1, UserID2: u2}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	req.Status = status
	return &req, nil
}

func (s *Store) GetUserConnections(userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	err := s.db.
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

func (s *Store) AreConnected(a, b uint) (bool, error) {
	u1, u2 := orderPair(a, b)
	var count int64
	err := s.db.Model(&models.Connection{}).
		Where("user_id1 = ? AND user_id2 = ?", u1, u2).
		Count(&count).Error
	return count > 0, err
}
