package database

import (
	"github.com/rpupo63/blogly/models"
	"gorm.io/gorm"
)

type PostTagRepo struct {
	db *gorm.DB
}

func NewPostTagRepo(db *gorm.DB) *PostTagRepo {
	return &PostTagRepo{db}
}

// FindAll returns every association row
func (r *PostTagRepo) FindAll() ([]*models.PostTag, error) {
	var postTags []*models.PostTag
	err := r.db.Order("post_id ASC").Order("tag_id ASC").Find(&postTags).Error
	return postTags, err
}

// TagIDsForPost returns the ids of the tags attached to postID
func (r *PostTagRepo) TagIDsForPost(postID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.PostTag{}).Where("post_id = ?", postID).Order("tag_id ASC").Pluck("tag_id", &ids).Error
	return ids, err
}

// PostIDsForTag returns the ids of the posts carrying tagID
func (r *PostTagRepo) PostIDsForTag(tagID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.PostTag{}).Where("tag_id = ?", tagID).Order("post_id ASC").Pluck("post_id", &ids).Error
	return ids, err
}

// Add inserts association rows
func (r *PostTagRepo) Add(postTags []models.PostTag) error {
	if len(postTags) == 0 {
		return nil
	}
	return r.db.Create(&postTags).Error
}

// DeleteTagsFromPost detaches the given tags from postID
func (r *PostTagRepo) DeleteTagsFromPost(postID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.db.Where("post_id = ? AND tag_id IN ?", postID, tagIDs).Delete(&models.PostTag{}).Error
}

// DeletePostsFromTag detaches the given posts from tagID
func (r *PostTagRepo) DeletePostsFromTag(tagID uint, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.Where("tag_id = ? AND post_id IN ?", tagID, postIDs).Delete(&models.PostTag{}).Error
}

// DeleteForPosts removes every association row of the given posts
func (r *PostTagRepo) DeleteForPosts(postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.Where("post_id IN ?", postIDs).Delete(&models.PostTag{}).Error
}

// DeleteForTag removes every association row of tagID
func (r *PostTagRepo) DeleteForTag(tagID uint) error {
	return r.db.Where("tag_id = ?", tagID).Delete(&models.PostTag{}).Error
}
