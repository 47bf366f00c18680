package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quickcart/concierge/internal/config"
	"github.com/quickcart/concierge/internal/handlers"
	"github.com/quickcart/concierge/internal/infrastructure/exchange"
	"github.com/quickcart/concierge/internal/infrastructure/openai"
	"github.com/quickcart/concierge/internal/services/catalog"
	"github.com/quickcart/concierge/internal/services/chat"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	gateway := openai.NewService(cfg.OpenAI.Key, cfg.OpenAI.OrgID, cfg.OpenAI.Model)
	rates := exchange.NewService(cfg.Exchange.AppID, cfg.Exchange.BaseURL)
	products := catalog.NewService(cfg.Catalog.Path)

	chatService, err := chat.NewService(gateway, products, rates, cfg.Chat.InitialToolChoice)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize chat service")
	}

	r := setupRouter(chatService, gateway)

	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("Server starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("ListenAndServe error")
	}
}

func setupRouter(chatService *chat.Service, gateway *openai.Service) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/chat", func(w http.ResponseWriter, req *http.Request) {
		handlers.HandleChat(chatService, w, req)
	}).Methods("POST")
	r.HandleFunc("/chat", func(w http.ResponseWriter, req *http.Request) {
		handlers.HandleChatProbe(gateway, w, req)
	}).Methods("GET")
	r.HandleFunc("/health", handlers.HandleHealth).Methods("GET")
	return r
}
