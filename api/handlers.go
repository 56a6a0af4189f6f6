package api

import (
	"github.com/rpupo63/blogly/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(blog *services.BlogService, pages *renderer) *routeHandlers {
	return &routeHandlers{
		userHandler: newUserHandler(blog, pages),
		postHandler: newPostHandler(blog, pages),
		tagHandler:  newTagHandler(blog, pages),
		jsonHandler: newJSONHandler(blog, pages),
	}
}
