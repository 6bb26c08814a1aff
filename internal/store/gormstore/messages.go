package gormstore

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
)

// SendMessage validates the target, membership and block state before writing
// the message row plus its implied notifications in one transaction.
func (s *Store) SendMessage(p store.SendMessageParams) (*models.Message, error) {
	if (p.ChatID == nil) == (p.GroupID == nil) {
		return nil, apperr.ErrBadMessageTarget
	}

	if p.ChatID != nil {
		chat, err := s.GetChat(*p.ChatID)
		if err != nil {
			return nil, err
		}
		if !chat.HasParticipant(p.SenderID) {
			return nil, apperr.ErrNotChatMember
		}
		if chat.BlockedBy != nil && *chat.BlockedBy != p.SenderID {
			return nil, apperr.ErrChatBlocked
		}
		blocked, err := s.IsBlocked(chat.User1ID, chat.User2ID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, apperr.ErrUserBlocked
		}
	} else {
		member, err := s.IsGroupMember(*p.GroupID, p.SenderID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, apperr.ErrNotGroupMember
		}
	}

	msgType := p.MessageType
	if msgType == "" {
		msgType = models.MessageText
	}
	msg := models.Message{
		ChatID:      p.ChatID,
		GroupID:     p.GroupID,
		SenderID:    p.SenderID,
		Content:     p.Content,
		MediaURL:    p.MediaURL,
		MessageType: msgType,
	}

	recipients, err := s.MessageRecipients(&msg)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		ref := msg.ID.String()
		for _, uid := range recipients {
			n := models.Notification{
				UserID:      uid,
				Type:        "new_message",
				Title:       "New message",
				ReferenceID: &ref,
			}
			if p.Content != nil {
				n.Body = *p.Content
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MessageRecipients returns the user ids a message's notifications address:
// the chat peer, or every group member except the sender.
func (s *Store) MessageRecipients(msg *models.Message) ([]uint, error) {
	switch {
	case msg.ChatID != nil:
		chat, err := s.GetChat(*msg.ChatID)
		if err != nil {
			return nil, err
		}
		return []uint{chat.Peer(msg.SenderID)}, nil
	case msg.GroupID != nil:
		var members []models.GroupMember
		err := s.db.Where("group_id = ? AND user_id <> ?", *msg.GroupID, msg.SenderID).Find(&members).Error
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		return ids, nil
	}
	return nil, nil
}

func (s *Store) GetMessage(messageID uuid.UUID) (*models.Message, error) {
	var msg models.Message
	if err := s.db.Where("id = ?", messageID).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// EditMessage replaces the content and stamps EditedAt. A message may be
// re-edited any number of times until it is tombstoned.
func (s *Store) EditMessage(messageID uuid.UUID, actor uint, content string) (*models.Message, error) {
	msg, err := s.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actor {
		return nil, apperr.ErrNotMessageSender
	}
	if msg.IsDeletedForAll {
		return nil, apperr.ErrMessageTombstoned
	}

	now := time.Now().UTC()
	err = s.db.Model(msg).Updates(map[string]any{
		"content":   content,
		"edited_at": now,
	}).Error
	if err != nil {
		return nil, err
	}
	msg.Content = &content
	msg.EditedAt = &now
	return msg, nil
}

// DeleteMessageForUser hides the message for the actor only. Idempotent; any
// participant of the containing chat or group may hide for themselves.
func (s *Store) DeleteMessageForUser(messageID uuid.UUID, actor uint) error {
	msg, err := s.GetMessage(messageID)
	if err != nil {
		return err
	}
	if err := s.requireMembership(msg, actor); err != nil {
		return err
	}

	var count int64
	err = s.db.Model(&models.MessageVisibility{}).
		Where("message_id = ? AND user_id = ?", messageID, actor).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.Create(&models.MessageVisibility{MessageID: messageID, UserID: actor}).Error
}

// DeleteMessageForAll sets the terminal tombstone flag. Sender only;
// irreversible.
func (s *Store) DeleteMessageForAll(messageID uuid.UUID, actor uint) (*models.Message, error) {
	msg, err := s.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actor {
		return nil, apperr.ErrNotMessageSender
	}
	if err := s.db.Model(msg).Update("is_deleted_for_all", true).Error; err != nil {
		return nil, err
	}
	msg.IsDeletedForAll = true
	return msg, nil
}

// UnsendMessage nulls the content and media and tombstones the message.
// Clients render unsent messages as removed rather than empty.
func (s *Store) UnsendMessage(messageID uuid.UUID, actor uint) (*models.Message, error) {
	msg, err := s.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actor {
		return nil, apperr.ErrNotMessageSender
	}
	err = s.db.Model(msg).Updates(map[string]any{
		"content":            nil,
		"media_url":          nil,
		"is_deleted_for_all": true,
	}).Error
	if err != nil {
		return nil, err
	}
	msg.Content = nil
	msg.MediaURL = nil
	msg.IsDeletedForAll = true
	return msg, nil
}

// ReactToMessage upserts the reaction keyed by (message, actor): a second
// react overwrites the emoji instead of adding a row. The write is a single
// INSERT ... ON CONFLICT so concurrent first reacts cannot trip the unique
// index.
func (s *Store) ReactToMessage(messageID uuid.UUID, actor uint, emoji string) (*models.Reaction, error) {
	msg, err := s.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(msg, actor); err != nil {
		return nil, err
	}

	reaction := models.Reaction{MessageID: messageID, UserID: actor, Emoji: emoji}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{"emoji": emoji}),
	}).Create(&reaction).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the surviving row, not the insert attempt.
	var saved models.Reaction
	if err := s.db.Where("message_id = ? AND user_id = ?", messageID, actor).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// RemoveReaction deletes the actor's reaction if present; absence is not an
// error.
func (s *Store) RemoveReaction(messageID uuid.UUID, actor uint) error {
	return s.db.
		Where("message_id = ? AND user_id = ?", messageID, actor).
		Delete(&models.Reaction{}).Error
}

// ForwardMessage copies content, media and type into a brand-new message in
// the target, owned by the forwarding sender. Edit state of the original is
// not carried over; the copy is a snapshot at forward time. A tombstoned
// original has no content left to snapshot and cannot be forwarded.
func (s *Store) ForwardMessage(messageID uuid.UUID, sender uint, targetChat, targetGroup *uuid.UUID) (*models.Message, error) {
	original, err := s.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	if original.IsDeletedForAll {
		return nil, apperr.ErrMessageTombstoned
	}
	return s.SendMessage(store.SendMessageParams{
		ChatID:      targetChat,
		GroupID:     targetGroup,
		SenderID:    sender,
		Content:     original.Content,
		MediaURL:    original.MediaURL,
		MessageType: original.MessageType,
	})
}

// GetChatMessages lists a chat's messages for the viewer, ascending. Messages
// the viewer hid are excluded; tombstoned messages are dropped entirely when
// HideTombstones is set, and redacted otherwise.
func (s *Store) GetChatMessages(chatID uuid.UUID, viewer uint, filter store.MessageFilter) ([]models.Message, error) {
	chat, err := s.GetChat(chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(viewer) {
		return nil, apperr.ErrNotChatMember
	}

	q := s.db.Where("chat_id = ?", chatID)
	if s.HideTombstones {
		q = q.Where("is_deleted_for_all = ?", false)
	}
	return s.listMessages(q, viewer, filter)
}

// GetGroupMessages lists a group's messages for the viewer, ascending.
// Tombstoned rows stay in the listing (redacted); rendering them is the
// caller's concern.
func (s *Store) GetGroupMessages(groupID uuid.UUID, viewer uint, filter store.MessageFilter) ([]models.Message, error) {
	member, err := s.IsGroupMember(groupID, viewer)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperr.ErrNotGroupMember
	}
	return s.listMessages(s.db.Where("group_id = ?", groupID), viewer, filter)
}

func (s *Store) listMessages(q *gorm.DB, viewer uint, filter store.MessageFilter) ([]models.Message, error) {
	q = q.Where("id NOT IN (?)",
		s.db.Model(&models.MessageVisibility{}).Select("message_id").Where("user_id = ?", viewer))
	if filter.SearchText != "" {
		q = q.Where("LOWER(content) LIKE ?", "%"+strings.ToLower(filter.SearchText)+"%")
	}
	if filter.Type != "" {
		q = q.Where("message_type = ?", filter.Type)
	}

	var msgs []models.Message
	if err := q.Order("created_at ASC").Find(&msgs).Error; err != nil {
		return nil, err
	}
	// Tombstoned content is hidden from every reader no matter how the row
	// reached the listing.
	for i := range msgs {
		if msgs[i].IsDeletedForAll {
			msgs[i].Content = nil
			msgs[i].MediaURL = nil
		}
	}
	return msgs, nil
}

func (s *Store) GetReactions(messageID uuid.UUID) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := s.db.Where("message_id = ?", messageID).Find(&reactions).Error
	return reactions, err
}

func (s *Store) requireMembership(msg *models.Message, userID uint) error {
	if msg.ChatID != nil {
		chat, err := s.GetChat(*msg.ChatID)
		if err != nil {
			return err
		}
		if !chat.HasParticipant(userID) {
			return apperr.ErrNotChatMember
		}
		return nil
	}
	if msg.GroupID != nil {
		member, err := s.IsGroupMember(*msg.GroupID, userID)
		if err != nil {
			return err
		}
		if !member {
			return apperr.ErrNotGroupMember
		}
	}
	return nil
}
