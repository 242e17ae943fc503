package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the page and sign-in routes. Every route sees the
// request's session.
func RegisterRoutes(r chi.Router, items *ItemHandlers, auth *AuthHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(auth.SessionMiddleware)

		r.Get("/", items.Home)
		r.Post("/todos", items.CreateItem)
		r.Get("/todo/{id}", items.Detail)
		r.Post("/todo/{id}/delete", items.DeleteItem)

		r.Get("/signin", auth.SignInPage)
		r.Post("/signin", auth.SignIn)
		r.Post("/signout", auth.SignOut)
	})
}
