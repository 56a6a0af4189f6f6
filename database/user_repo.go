package database

import (
	"github.com/rpupo63/blogly/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindAll returns all users ordered by last name, then first name
func (r *UserRepo) FindAll() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("last_name ASC").Order("first_name ASC").Order("id ASC").Find(&users).Error
	return users, err
}

// FindByID returns a user with their posts, newest first
func (r *UserRepo) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Posts", func(db *gorm.DB) *gorm.DB {
		return db.Order("posts.created_at DESC").Order("posts.id DESC")
	}).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user with the given id exists
func (r *UserRepo) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Add inserts a new user into the database
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Omit("Posts").Create(user).Error
}

// Update overwrites the editable columns of an existing user
func (r *UserRepo) Update(user *models.User) error {
	return r.db.Model(&models.User{ID: user.ID}).
		Select("first_name", "last_name", "image_url").
		Updates(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"image_url":  user.ImageURL,
		}).Error
}

// Delete removes a user from the database by id
func (r *UserRepo) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}
