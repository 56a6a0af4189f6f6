package models

// Tag is a unique label that can be attached to any number of posts
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_name"`
	Posts []Post `json:"posts,omitempty" gorm:"many2many:post_tags"`
}

// PostIDs returns the ids of the posts loaded on the tag.
func (t Tag) PostIDs() []uint {
	ids := make([]uint, 0, len(t.Posts))
	for _, post := range t.Posts {
		ids = append(ids, post.ID)
	}
	return ids
}
