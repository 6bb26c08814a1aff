package gormstore

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
)

// CreateOrGetChat returns the existing chat for the unordered pair or creates
// a new one. Fails closed on self-chats and on a block in either direction.
func (s *Store) CreateOrGetChat(userA, userB uint) (*models.Chat, error) {
	if userA == userB {
		return nil, apperr.ErrSameUser
	}
	blocked, err := s.IsBlocked(userA, userB)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperr.ErrUserBlocked
	}

	u1, u2 := orderPair(userA, userB)
	var chat models.Chat
	err = s.db.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&chat).Error
	if err == nil {
		return &chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	chat = models.Chat{
		User1ID:    u1,
		User2ID:    u2,
		IsAccepted: true,
	}
	if err := s.db.Create(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *Store) GetChat(chatID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.Where("id = ?", chatID).First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// HandleChatAction applies accept, decline or block. Decline removes the chat
// and all of its messages in one transaction.
func (s *Store) HandleChatAction(chatID uuid.UUID, actor uint, action string) (*models.Chat, error) {
	chat, err := s.GetChat(chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(actor) {
		return nil, apperr.ErrNotChatMember
	}

	switch action {
	case "accept":
		err = s.db.Model(chat).Updates(map[string]any{
			"is_accepted": true,
			"blocked_by":  nil,
		}).Error
		if err != nil {
			return nil, err
		}
		chat.IsAccepted = true
		chat.BlockedBy = nil
		return chat, nil

	case "decline":
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("message_id IN (?)",
				tx.Model(&models.Message{}).Select("id").Where("chat_id = ?", chatID),
			).Delete(&models.MessageVisibility{}).Error; err != nil {
				return err
			}
			if err := tx.Where("message_id IN (?)",
				tx.Model(&models.Message{}).Select("id").Where("chat_id = ?", chatID),
			).Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("chat_id = ?", chatID).Delete(&models.Message{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Chat{}, "id = ?", chatID).Error
		})
		if err != nil {
			return nil, err
		}
		return chat, nil

	case "block":
		if err := s.db.Model(chat).Update("blocked_by", actor).Error; err != nil {
			return nil, err
		}
		chat.BlockedBy = &actor
		return chat, nil

	default:
		return nil, apperr.ErrInvalidChatAction
	}
}

// GetUserChats lists accepted chats for the user, newest first. A user who has
// been blocked by the other party no longer sees the chat; the blocker still
// does.
func (s *Store) GetUserChats(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.db.
		Where("(user1_id = ? OR user2_id = ?)", userID, userID).
		Where("is_accepted = ?", true).
		Where("blocked_by IS NULL OR blocked_by = ?", userID).
		Order("created_at DESC").
		Find(&chats).Error
	return chats, err
}

func (s *Store) CreateGroup(name string, creatorID uint, memberIDs []uint) (*models.Group, error) {
	group := models.Group{Name: name, CreatorID: creatorID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		seen := map[uint]bool{}
		now := time.Now().UTC()
		for _, uid := range append(memberIDs, creatorID) {
			if seen[uid] {
				continue
			}
			seen[uid] = true
			member := models.GroupMember{
				GroupID:  group.ID,
				UserID:   uid,
				IsAdmin:  uid == creatorID,
				JoinedAt: now,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Store) GetGroup(groupID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := s.db.Where("id = ?", groupID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (s *Store) GetUserGroups(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.
		Where("id IN (?)", s.db.Model(&models.GroupMember{}).Select("group_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (s *Store) IsGroupMember(groupID uuid.UUID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}
