package models

import "time"

// Post represents a blog post written by a single user
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"type:varchar(100);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UserID    uint      `json:"userId" gorm:"not null;index:idx_posts_user_id"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Tags      []Tag     `json:"tags,omitempty" gorm:"many2many:post_tags"`
}

// TagIDs returns the ids of the tags loaded on the post.
func (p Post) TagIDs() []uint {
	ids := make([]uint, 0, len(p.Tags))
	for _, tag := range p.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
