package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/msKim92/wiselife-project/internal/api/handler"
	"github.com/msKim92/wiselife-project/internal/app/service"
	"github.com/msKim92/wiselife-project/internal/common/security"
)

func NewRouter(
	challengeService *service.ChallengeService,
	memberService *service.MemberService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a token when present and puts claims in context. Whether a
	// token is required is decided per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	challengeHandler := handler.NewChallengeHandler(challengeService, memberService)
	r.Route("/challenges", challengeHandler.RegisterRoutes)

	return r
}
