// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/wee-saviya/cliparse"
	"github.com/danielhkuo/wee-saviya/handlers"
	"github.com/danielhkuo/wee-saviya/knowledge"
	"github.com/danielhkuo/wee-saviya/middleware"
	"github.com/danielhkuo/wee-saviya/proxy"
	"github.com/danielhkuo/wee-saviya/ratelimit"
	"github.com/danielhkuo/wee-saviya/realtime"
	"github.com/danielhkuo/wee-saviya/tour"
)

// APIPrefix is the path prefix covered by the rate limiter
const APIPrefix = "/api/"

// Deps are the collaborators shared by all handlers
type Deps struct {
	Knowledge   *knowledge.Store
	Tours       *tour.Catalog
	Proxy       *proxy.Proxy
	Limiter     *ratelimit.Limiter
	Completions handlers.CompletionStore // optional
}

func NewRouter(deps Deps, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	aiHandler := handlers.NewAIHandler(deps.Proxy, cfg)
	knowledgeHandler := handlers.NewKnowledgeHandler(deps.Knowledge)
	tourHandler := handlers.NewTourHandler(deps.Tours, deps.Completions, cfg)

	// Health check
	mux.HandleFunc("GET /health", middleware.WithLogging(healthHandler.Health))

	// AI assistant (workflow proxy)
	mux.HandleFunc("POST /api/ai/chat", middleware.WithLogging(aiHandler.Chat))
	mux.HandleFunc("GET /api/ai/help/{screenName}", middleware.WithLogging(aiHandler.Help))
	mux.HandleFunc("POST /api/ai/voice", middleware.WithLogging(aiHandler.Voice))
	mux.HandleFunc("POST /api/ai/suggestions", middleware.WithLogging(aiHandler.Suggestions))

	// Static knowledge
	mux.HandleFunc("GET /api/knowledge/market-prices", middleware.WithLogging(knowledgeHandler.MarketPrices))
	mux.HandleFunc("GET /api/knowledge/cultivation", middleware.WithLogging(knowledgeHandler.Cultivation))
	mux.HandleFunc("GET /api/knowledge/problems", middleware.WithLogging(knowledgeHandler.Problems))
	mux.HandleFunc("GET /api/knowledge/search", middleware.WithLogging(knowledgeHandler.Search))

	// Guided tours
	mux.HandleFunc("POST /api/tour/complete", middleware.WithLogging(tourHandler.Complete))
	mux.HandleFunc("GET /api/tour/completions/{userId}", middleware.WithLogging(tourHandler.Completions))
	mux.HandleFunc("GET /api/tour/{userRole}/{screenName}", middleware.WithLogging(tourHandler.GetTour))
	mux.HandleFunc("GET /api/tour/{userRole}", middleware.WithLogging(tourHandler.ListTours))

	// Realtime chat; logs its own connection lifecycle and charges each
	// message to the same rate budget as /api/
	mux.Handle("GET /ws", realtime.NewServer(deps.Proxy, cfg.AllowedOrigins,
		realtime.WithMaxInflight(cfg.WSMaxInflight),
		realtime.WithLimiter(deps.Limiter),
	))

	// Everything else
	mux.HandleFunc("/", middleware.NotFound)

	var handler http.Handler = mux
	handler = middleware.RateLimit(deps.Limiter, APIPrefix)(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recover(cfg.IsProduction())(handler)
	return handler
}
