package server

import (
	"fmt"
	"net/http"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	authsvc "edura/internal/auth"
	"edura/internal/handlers"
	authh "edura/internal/handlers/auth"
	"edura/internal/handlers/profile"
	"edura/internal/mailer"
	"edura/internal/middleware"
	"edura/internal/models"
	"edura/internal/store"
	"edura/internal/utils"
)

type Server struct {
	Addr    string
	Store   store.UserStore
	Tokens  *authsvc.TokenService
	Service *authsvc.Service
	Log     *logrus.Logger
}

func NewServer(addr string, st store.UserStore, m mailer.Mailer, tokens *authsvc.TokenService, bcryptCost int, log *logrus.Logger) *Server {
	return &Server{
		Addr:    addr,
		Store:   st,
		Tokens:  tokens,
		Service: authsvc.NewService(st, m, tokens, bcryptCost),
		Log:     log,
	}
}

func HandlerFunc(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}

// Router builds the full route tree. Kept separate from Run so tests can
// drive it through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// middlewares
	r.Use(logger.Logger("router", s.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "Welcome to edura API! Server is running....")
	})
	r.Get("/health", handlers.HealthCheck)

	// auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", HandlerFunc(&authh.RegisterHandler{Service: s.Service}))
		r.Post("/verify-email", HandlerFunc(&authh.VerifyEmailHandler{Service: s.Service}))
		r.Post("/resend-otp", HandlerFunc(&authh.ResendOTPHandler{Service: s.Service}))
		r.Post("/login", HandlerFunc(&authh.LoginHandler{Service: s.Service}))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.Tokens, s.Store))
			r.Get("/profile", HandlerFunc(&authh.MeHandler{}))
			r.With(middleware.RequireRole(models.RoleTeacher)).Get("/teacher-only",
				func(w http.ResponseWriter, r *http.Request) {
					utils.JSON(w, http.StatusOK, utils.APIResponse{
						Success: true,
						Message: "Teacher access granted!",
					})
				})
		})
	})

	// profile routes (all protected)
	r.Route("/profile", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.Tokens, s.Store))
		r.Get("/", HandlerFunc(&profile.GetHandler{Store: s.Store}))
		r.With(middleware.RequireRole(models.RoleStudent)).Put("/student", HandlerFunc(&profile.StudentHandler{Store: s.Store}))
		r.With(middleware.RequireRole(models.RoleTeacher)).Put("/teacher", HandlerFunc(&profile.TeacherHandler{Store: s.Store}))
		r.Put("/user", HandlerFunc(&profile.UserHandler{Store: s.Store}))
	})

	return r
}

func (s *Server) Run() error {
	s.Log.Infof("Server running on %s", s.Addr)
	return http.ListenAndServe(s.Addr, s.Router())
}
