package api

import "github.com/rpupo63/blogly/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler userHandler
	postHandler postHandler
	tagHandler  tagHandler
	jsonHandler jsonHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// UserCollection represents the users returned by the JSON API
type UserCollection struct {
	Users []*models.User `json:"users"`
	Total int            `json:"total"`
}

// PostCollection represents the posts returned by the JSON API
type PostCollection struct {
	Posts []*models.Post `json:"posts"`
	Total int            `json:"total"`
}

// TagCollection represents the tags returned by the JSON API
type TagCollection struct {
	Tags  []*models.Tag `json:"tags"`
	Total int           `json:"total"`
}
