package service

import (
	"errors"
	"fmt"

	"warbler/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyText   = errors.New("message text is required")
	ErrTextTooLong = fmt.Errorf("message text exceeds %d characters", model.MaxMessageLength)

	// ErrNotAuthor is returned when a user tries to delete somebody
	// else's warble.
	ErrNotAuthor = errors.New("not the author of this message")

	// ErrLikeOwnMessage is returned when a user tries to like their own
	// warble.
	ErrLikeOwnMessage = errors.New("cannot like your own message")
)

// FeedNotifier is told about every new warble so it can be pushed to
// online followers. Implemented by the websocket hub.
type FeedNotifier interface {
	WarblePosted(msg *model.Message)
}

type MessageService struct {
	db       *gorm.DB
	notifier FeedNotifier
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// SetFeedNotifier wires the live feed; optional.
func (s *MessageService) SetFeedNotifier(n FeedNotifier) {
	s.notifier = n
}

// Create posts a new warble for userID. Text is validated before any
// write; a nonexistent author is rejected by the foreign key at create
// time and no row is retained.
func (s *MessageService) Create(userID uint, text string) (*model.Message, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if len([]rune(text)) > model.MaxMessageLength {
		return nil, ErrTextTooLong
	}

	msg := &model.Message{Text: text, UserID: userID}
	if err := s.db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.WarblePosted(msg)
	}
	return msg, nil
}

func (s *MessageService) Get(id uint) (*model.Message, error) {
	var msg model.Message
	if err := s.db.Preload("User").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Delete removes a warble; only its author may do so.
func (s *MessageService) Delete(userID, messageID uint) error {
	var msg model.Message
	if err := s.db.First(&msg, messageID).Error; err != nil {
		return err
	}
	if msg.UserID != userID {
		return ErrNotAuthor
	}
	if err := s.db.Delete(&msg).Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// ForUser returns the warbles authored by userID, newest first.
func (s *MessageService) ForUser(userID uint, limit int) ([]model.Message, error) {
	var msgs []model.Message
	err := s.db.Preload("User").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	return msgs, nil
}

// HomeTimeline returns the newest warbles from the users userID follows,
// plus their own.
func (s *MessageService) HomeTimeline(userID uint, limit int) ([]model.Message, error) {
	following := s.db.Model(&model.Follow{}).
		Select("user_being_followed_id").
		Where("user_following_id = ?", userID)

	var msgs []model.Message
	err := s.db.Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, following).
		Order("timestamp DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	return msgs, nil
}

// Like marks the message as liked by userID. Liking twice is a no-op,
// liking your own warble is rejected, and a nonexistent user or message
// fails on the foreign key at create time.
func (s *MessageService) Like(userID, messageID uint) error {
	var msg model.Message
	if err := s.db.First(&msg, messageID).Error; err != nil {
		return err
	}
	if msg.UserID == userID {
		return ErrLikeOwnMessage
	}

	like := &model.Like{UserID: userID, MessageID: messageID}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return fmt.Errorf("failed to like message: %w", err)
	}
	return nil
}

// Unlike removes the like if present.
func (s *MessageService) Unlike(userID, messageID uint) error {
	err := s.db.
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&model.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to unlike message: %w", err)
	}
	return nil
}

func (s *MessageService) IsLiked(userID, messageID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

// UsersWhoLiked returns the users that liked the message, in like order.
func (s *MessageService) UsersWhoLiked(messageID uint) ([]model.User, error) {
	var users []model.User
	err := s.db.Model(&model.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.message_id = ?", messageID).
		Order("likes.created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query likers: %w", err)
	}
	return users, nil
}

// LikedBy returns the warbles userID has liked, newest like first.
func (s *MessageService) LikedBy(userID uint) ([]model.Message, error) {
	var msgs []model.Message
	err := s.db.Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query liked messages: %w", err)
	}
	return msgs, nil
}

// LikedMessageIDs returns the set of message ids userID has liked, for
// rendering like state on timelines.
func (s *MessageService) LikedMessageIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := s.db.Model(&model.Like{}).
		Where("user_id = ?", userID).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query liked ids: %w", err)
	}

	liked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
