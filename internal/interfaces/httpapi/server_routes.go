package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/crew-members", handler.ListCrewMembers)
	mux.HandleFunc("GET /v1/crew-members/{userID}", handler.GetCrewMember)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/games/{gameID}/crew", handler.GetCrewList)
	mux.HandleFunc("GET /v1/games/{gameID}/candidates/{position}", handler.ListCandidates)
	mux.HandleFunc("GET /v1/availability", handler.ListAvailability)
	mux.HandleFunc("GET /v1/availability/{userID}/{gameID}", handler.GetAvailability)
	mux.HandleFunc("GET /v1/invitations", handler.ListInvitations)
	mux.HandleFunc("GET /v1/invitations/{token}", handler.ValidateInvitation)
	mux.HandleFunc("GET /v1/schedules", handler.ListSchedules)
	mux.HandleFunc("GET /v1/schedules/{scheduleID}", handler.GetSchedule)
}

// registerWriteRoutes wires writes. Availability submission and invitation
// redemption come from crew members and stay outside the admin guard.
func registerWriteRoutes(mux *http.ServeMux, handler *Handler, admin func(http.HandlerFunc) http.Handler) {
	mux.Handle("POST /v1/crew-members", admin(handler.CreateCrewMember))
	mux.Handle("DELETE /v1/crew-members/{userID}", admin(handler.DeleteCrewMember))

	mux.Handle("POST /v1/games", admin(handler.CreateGame))
	mux.Handle("PUT /v1/games/{gameID}", admin(handler.UpdateGame))
	mux.Handle("DELETE /v1/games/{gameID}", admin(handler.DeleteGame))
	mux.Handle("POST /v1/games/{gameID}/publish", admin(handler.PublishGame))
	mux.Handle("POST /v1/games/{gameID}/assignments", admin(handler.AssignCrewMember))
	mux.Handle("POST /v1/games/{gameID}/assignments/bulk", admin(handler.AssignCrewSchedule))
	mux.Handle("DELETE /v1/games/{gameID}/assignments/{crewedUserID}", admin(handler.RemoveAssignment))

	mux.Handle("POST /v1/invitations", admin(handler.IssueInvitations))
	mux.Handle("POST /v1/schedules", admin(handler.CreateSchedule))

	mux.HandleFunc("POST /v1/availability", handler.SubmitAvailability)
	mux.HandleFunc("POST /v1/invitations/{token}/redeem", handler.RedeemInvitation)
}
