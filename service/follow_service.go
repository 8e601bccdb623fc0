package service

import (
	"errors"
	"fmt"

	"warbler/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow adds the edge follower -> followed. Re-following is a no-op:
// the insert is ON CONFLICT DO NOTHING against the composite key.
func (s *FollowService) Follow(followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	edge := &model.Follow{
		UserBeingFollowedID: followedID,
		UserFollowingID:     followerID,
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error
	if err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

// Unfollow removes the edge if present; removing a missing edge is not an
// error.
func (s *FollowService) Unfollow(followerID, followedID uint) error {
	err := s.db.
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Delete(&model.Follow{}).Error
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

// IsFollowing reports whether the edge user -> other exists.
func (s *FollowService) IsFollowing(userID, otherID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.Follow{}).
		Where("user_following_id = ? AND user_being_followed_id = ?", userID, otherID).
		Count(&count).Error
	return count > 0, err
}

// IsFollowedBy reports whether the edge other -> user exists.
func (s *FollowService) IsFollowedBy(userID, otherID uint) (bool, error) {
	return s.IsFollowing(otherID, userID)
}

// Following returns the users userID follows, in edge creation order.
func (s *FollowService) Following(userID uint) ([]model.User, error) {
	var users []model.User
	err := s.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", userID).
		Order("follows.created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query following: %w", err)
	}
	return users, nil
}

// Followers returns the users following userID, in edge creation order.
func (s *FollowService) Followers(userID uint) ([]model.User, error) {
	var users []model.User
	err := s.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", userID).
		Order("follows.created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query followers: %w", err)
	}
	return users, nil
}

// FollowerIDs is the id-only variant used by the live feed hub.
func (s *FollowService) FollowerIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&model.Follow{}).
		Where("user_being_followed_id = ?", userID).
		Pluck("user_following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query follower ids: %w", err)
	}
	return ids, nil
}
