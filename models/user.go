package models

// DefaultImageURL is stored when a user is saved without an image.
const DefaultImageURL = "default.jpg"

// User represents a blog author
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string `json:"firstName" gorm:"type:varchar(50);not null"`
	LastName  string `json:"lastName" gorm:"type:varchar(50);not null"`
	ImageURL  string `json:"imageUrl" gorm:"type:varchar(200);not null;default:default.jpg"`
	Posts     []Post `json:"posts,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
