package database

import (
	"github.com/rpupo63/blogly/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags from the database
func (r *TagRepo) FindAll() ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Order("id ASC").Find(&tags).Error
	return tags, err
}

// FindByID returns a tag with its posts
func (r *TagRepo) FindByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Preload("Posts", func(db *gorm.DB) *gorm.DB {
		return db.Order("posts.id ASC")
	}).First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// NameTaken reports whether a tag other than exceptID already uses name
func (r *TagRepo) NameTaken(name string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Tag{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error
	return count > 0, err
}

// ExistingIDs filters ids down to those that belong to a tag
func (r *TagRepo) ExistingIDs(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []uint
	err := r.db.Model(&models.Tag{}).Where("id IN ?", ids).Order("id ASC").Pluck("id", &existing).Error
	return existing, err
}

// Add inserts a new tag into the database
func (r *TagRepo) Add(tag *models.Tag) error {
	return r.db.Omit("Posts").Create(tag).Error
}

// Update overwrites the name of an existing tag
func (r *TagRepo) Update(tag *models.Tag) error {
	return r.db.Model(&models.Tag{ID: tag.ID}).Update("name", tag.Name).Error
}

// Delete removes a tag from the database by id
func (r *TagRepo) Delete(id uint) error {
	return r.db.Delete(&models.Tag{}, id).Error
}
