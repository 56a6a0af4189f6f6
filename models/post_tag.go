package models

// PostTag is a row of the post/tag association table
type PostTag struct {
	PostID uint `json:"postId" gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `json:"tagId" gorm:"primaryKey;autoIncrement:false;index:idx_post_tags_tag_id"`
}
