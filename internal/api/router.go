package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Competitions *CompetitionHandler
	Voting       *VotingHandler
	Chat         *ChatHandler
	Menu         *MenuHandler
	WS           *WSHandler
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/competitions", func(r chi.Router) {
			r.Post("/", h.Competitions.Create)
			r.Get("/", h.Competitions.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Competitions.Get)
				r.Post("/join", h.Competitions.Join)
				r.Post("/start", h.Competitions.Start)
				r.Post("/end", h.Competitions.End)
				r.Get("/results", h.Competitions.Results)
				r.Post("/votes", h.Competitions.SubmitRating)
				r.Post("/voting-sessions", h.Voting.Create)
				r.Get("/voting-sessions", h.Voting.ListActive)
				r.Get("/messages", h.Chat.List)
				r.Post("/messages", h.Chat.Send)
			})
		})
		r.Route("/voting-sessions/{id}", func(r chi.Router) {
			r.Post("/vote", h.Voting.SubmitVote)
			r.Post("/end", h.Voting.End)
		})
		r.Post("/messages/{id}/moderate", h.Chat.Moderate)

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", h.Menu.CreateCategory)
			r.Get("/", h.Menu.ListCategories)
			r.Delete("/{id}", h.Menu.DeleteCategory)
		})
		r.Route("/menu-items", func(r chi.Router) {
			r.Post("/", h.Menu.CreateMenuItem)
			r.Get("/", h.Menu.ListMenuItems)
			r.Get("/{id}", h.Menu.GetMenuItem)
			r.Put("/{id}", h.Menu.UpdateMenuItem)
			r.Delete("/{id}", h.Menu.DeleteMenuItem)
		})
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.Menu.CreateUser)
			r.Get("/", h.Menu.ListUsers)
		})
	})

	r.Get("/ws/competitions/{id}", h.WS.Serve)

	return r
}
