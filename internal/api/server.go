package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tandemio/lingua/internal/service"
)

type Server struct {
	mx              *chi.Mux
	userService     service.UserServiceI
	progressService service.ProgressServiceI
	jwtService      JWTServiceI
}

type ServicesList struct {
	UserService     service.UserServiceI
	ProgressService service.ProgressServiceI
	JwtService      JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:              chi.NewMux(),
		userService:     servicesOptions.UserService,
		progressService: servicesOptions.ProgressService,
		jwtService:      servicesOptions.JwtService,
	}
}

func (s *Server) Run(address string) error {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Post("/activities", s.RecordActivity)
			r.Get("/streak", s.GetStreakView)
			r.Get("/progress/{language}", s.GetLanguageProgress)
			r.Put("/languages/{language}", s.SetLanguageLevel)
			r.Get("/languages", s.ListLanguages)
			r.Delete("/account", s.DeleteAccount)
		})
	})
	return http.ListenAndServe(address, s.mx)
}
