package gormstore

import "github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"

func (s *Store) CreatePost(post *models.Post) error {
	return s.db.Create(post).Error
}

func (s *Store) GetUserPosts(userID uint, postType models.PostType) ([]models.Post, error) {
	q := s.db.Where("user_id = ?", userID)
	if postType != "" {
		q = q.Where("type = ?", postType)
	}
	var posts []models.Post
	err := q.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (s *Store) CountUserPosts(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
