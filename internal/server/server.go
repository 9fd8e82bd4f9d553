package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/shouni/go-amazebook-kit/pkg/auth"
	"github.com/shouni/go-amazebook-kit/pkg/payment"
	"github.com/shouni/go-amazebook-kit/pkg/project"
	"github.com/shouni/go-amazebook-kit/pkg/settings"
	"github.com/shouni/go-amazebook-kit/pkg/workflow"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// PaymentProcessor はカード検証と決済を行います。
type PaymentProcessor interface {
	VerifyCard(ctx context.Context, cardNumber string) error
	ProcessPayment(ctx context.Context, amount float64, currency string) (payment.Result, error)
}

// Deps は API サーバーの依存関係です。
type Deps struct {
	Projects       *project.Store
	Examples       project.ExampleRepository
	Settings       *settings.Service
	Auth           *auth.Service
	Payments       PaymentProcessor
	Generator      workflow.Generator
	Publisher      workflow.Publisher
	OutputDir      string
	AllowedOrigins []string
}

// Server は Amazebook の HTTP API です。
type Server struct {
	Deps

	// 非同期に実行中の生成ジョブ
	jobs sync.WaitGroup
}

// New は Server を初期化します。
func New(d Deps) (*Server, error) {
	switch {
	case d.Projects == nil:
		return nil, fmt.Errorf("Projects は必須です")
	case d.Examples == nil:
		return nil, fmt.Errorf("Examples は必須です")
	case d.Settings == nil:
		return nil, fmt.Errorf("Settings は必須です")
	case d.Auth == nil:
		return nil, fmt.Errorf("Auth は必須です")
	case d.Payments == nil:
		return nil, fmt.Errorf("Payments は必須です")
	case d.Generator == nil:
		return nil, fmt.Errorf("Generator は必須です")
	case d.Publisher == nil:
		return nil, fmt.Errorf("Publisher は必須です")
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}
	return &Server{Deps: d}, nil
}

// Wait はバックグラウンドで実行中の生成がすべて終わるまで待ちます。
func (s *Server) Wait() {
	s.jobs.Wait()
}

// Routes はミドルウェアとルートを登録したハンドラーを返します。
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(CORS(s.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/route", s.handleRoute)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/google", s.handleGoogleLogin)
			r.Post("/mfa", s.handleVerifyMFA)
			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
		})

		r.Get("/flags", s.handleGetFlags)
		r.With(s.requireAdmin).Put("/flags", s.handleUpdateFlag)

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", s.handleCreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Patch("/", s.handleUpdateProject)
				r.Post("/characters", s.handleAddCharacter)
				r.Patch("/characters/{index}", s.handleUpdateCharacter)
				r.Delete("/characters/{index}", s.handleRemoveCharacter)
				r.Post("/generate", s.handleGenerate)
				r.Post("/purchase", s.handlePurchase)
				r.Post("/export", s.handleExport)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleSaveSettings)
			r.Post("/settings/reset", s.handleResetSettings)
		})

		r.Post("/payment/verify", s.handleVerifyPayment)
		r.Get("/pricing", s.handlePricing)
		r.Get("/examples", s.handleExamples)
	})

	return r
}
