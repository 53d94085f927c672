package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/naijaprep/naijaprep-cbt/internal/api/http"
	"github.com/naijaprep/naijaprep-cbt/internal/audit"
	auth "github.com/naijaprep/naijaprep-cbt/internal/auth/middleware"
	"github.com/naijaprep/naijaprep-cbt/internal/config"
	"github.com/naijaprep/naijaprep-cbt/internal/db"
	"github.com/naijaprep/naijaprep-cbt/internal/mocktest"
	"github.com/naijaprep/naijaprep-cbt/internal/question"
	"github.com/naijaprep/naijaprep-cbt/internal/rbac"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	store := mocktest.NewSQLStore(dbh)
	bank := question.NewSQLBank(dbh)
	events := audit.NewEventRepo(dbh)

	policies := mocktest.DefaultPolicies()
	for t, p := range policies {
		switch t {
		case mocktest.ExamJAMB:
			p.AttemptCooldown = cfg.AttemptCooldownJAMB
		case mocktest.ExamWAEC:
			p.AttemptCooldown = cfg.AttemptCooldownWAEC
		}
		p.LockMonths = cfg.SubjectLockMonths
		p.ResultEmbargo = cfg.ResultEmbargo
		policies[t] = p
	}

	svc := mocktest.New(store, bank, time.Now,
		mocktest.WithPolicies(policies),
		mocktest.WithAudit(events),
	)

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, auth.AdminFallback{
		Username: cfg.AdminUser,
		PassHash: cfg.AdminPassHash,
	}))

	// Protected API (JWT → subject/role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Route("/mock-test", func(mr chi.Router) {
			mr.With(rbac.Require("attempt:create")).
				Post("/initialize", api.InitializeHandler(svc))
			mr.With(rbac.Require("attempt:view-own")).
				Get("/info/last-attempt", api.LastAttemptInfoHandler(svc))
			mr.With(rbac.Require("results:check")).
				Get("/check-results/{examID}", api.CheckResultsHandler(svc))

			mr.Route("/{mockTestID}", func(sr chi.Router) {
				sr.With(rbac.Require("attempt:select-subjects")).
					Put("/subjects", api.SelectSubjectsHandler(svc))
				sr.With(rbac.Require("attempt:confirm")).
					Post("/confirm", api.ConfirmSubjectsHandler(svc))
				sr.With(rbac.Require("attempt:begin")).
					Post("/begin", api.BeginTestHandler(svc))
				sr.With(rbac.Require("attempt:respond")).
					Get("/questions", api.QuestionsHandler(svc))
				sr.With(rbac.Require("attempt:respond")).
					Post("/responses", api.SaveResponseHandler(svc))
				sr.With(rbac.Require("attempt:respond")).
					Put("/current-subject", api.SetCurrentSubjectHandler(svc))
				sr.With(rbac.Require("attempt:respond")).
					Post("/complete-subject", api.CompleteSubjectHandler(svc))
				sr.With(rbac.Require("attempt:submit")).
					Post("/submit", api.SubmitHandler(svc))
				sr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
					Get("/status", api.StatusHandler(svc))
				sr.With(rbac.Require("attempt:report-violation")).
					Post("/violations", api.RecordViolationHandler(svc))
				sr.With(rbac.Require("attempt:request-unlock")).
					Post("/unlock-requests", api.RequestUnlockHandler(svc))
			})
		})

		pr.With(rbac.Require("question:upsert")).
			Post("/questions", api.UpsertQuestionHandler(bank))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
