package database

import (
	"github.com/rpupo63/blogly/models"
	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

func orderTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.id ASC")
}

// FindAll returns all posts with their tags
func (r *PostRepo) FindAll() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Preload("Tags", orderTags).Order("id ASC").Find(&posts).Error
	return posts, err
}

// FindRecent returns at most limit posts, newest first, with their authors
func (r *PostRepo) FindRecent(limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// FindByID returns a post with its author and tags
func (r *PostRepo) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("User").Preload("Tags", orderTags).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// IDsByUser returns the ids of every post owned by userID
func (r *PostRepo) IDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// ExistingIDs filters ids down to those that belong to a post
func (r *PostRepo) ExistingIDs(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []uint
	err := r.db.Model(&models.Post{}).Where("id IN ?", ids).Order("id ASC").Pluck("id", &existing).Error
	return existing, err
}

// Add inserts a new post without touching its associations
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Omit("User", "Tags").Create(post).Error
}

// Update overwrites the title and content of an existing post
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Model(&models.Post{ID: post.ID}).
		Select("title", "content").
		Updates(map[string]interface{}{
			"title":   post.Title,
			"content": post.Content,
		}).Error
}

// Delete removes a post from the database by id
func (r *PostRepo) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// DeleteByUser removes every post owned by userID
func (r *PostRepo) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Post{}).Error
}
