package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// setupPageRoutes registers the server rendered HTML pages
func setupPageRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/", handlers.postHandler.showRecentPosts())

	// User Handler endpoints
	r.Get("/users", handlers.userHandler.listUsers())
	r.Get("/users/new", handlers.userHandler.newUserForm())
	r.Post("/users/new", handlers.userHandler.createUser())
	r.Get("/users/{userID:[0-9]+}", handlers.userHandler.showUser())
	r.Get("/users/{userID:[0-9]+}/edit", handlers.userHandler.editUserForm())
	r.Post("/users/{userID:[0-9]+}/edit", handlers.userHandler.updateUser())
	r.Post("/users/{userID:[0-9]+}/delete", handlers.userHandler.deleteUser())

	// Post Handler endpoints
	r.Get("/users/{userID:[0-9]+}/posts/new", handlers.postHandler.newPostForm())
	r.Post("/users/{userID:[0-9]+}/posts/new", handlers.postHandler.createPost())
	r.Get("/posts/{postID:[0-9]+}", handlers.postHandler.showPost())
	r.Get("/posts/{postID:[0-9]+}/edit", handlers.postHandler.editPostForm())
	r.Post("/posts/{postID:[0-9]+}/edit", handlers.postHandler.updatePost())
	r.Post("/posts/{postID:[0-9]+}/delete", handlers.postHandler.deletePost())

	// Tag Handler endpoints
	r.Get("/tags", handlers.tagHandler.listTags())
	r.Get("/tags/new", handlers.tagHandler.newTagForm())
	r.Post("/tags/new", handlers.tagHandler.createTag())
	r.Get("/tags/{tagID:[0-9]+}", handlers.tagHandler.showTag())
	r.Get("/tags/{tagID:[0-9]+}/edit", handlers.tagHandler.editTagForm())
	r.Post("/tags/{tagID:[0-9]+}/edit", handlers.tagHandler.updateTag())
	r.Post("/tags/{tagID:[0-9]+}/delete", handlers.tagHandler.deleteTag())
}

// setupAPIRoutes registers the read-only JSON API
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, acceptedOrigins []string) {
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   acceptedOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/users", handlers.jsonHandler.listUsers())
		r.Get("/users/{userID:[0-9]+}", handlers.jsonHandler.getUser())
		r.Get("/posts", handlers.jsonHandler.listPosts())
		r.Get("/posts/recent", handlers.jsonHandler.recentPosts())
		r.Get("/posts/{postID:[0-9]+}", handlers.jsonHandler.getPost())
		r.Get("/tags", handlers.jsonHandler.listTags())
		r.Get("/tags/{tagID:[0-9]+}", handlers.jsonHandler.getTag())
		r.NotFound(handlers.jsonHandler.notFound())
	})
}
