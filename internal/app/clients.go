package app

import (
	"os"

	"github.com/tushar-behera15/padh-ai-tracker/internal/clients/gemini"
	"github.com/tushar-behera15/padh-ai-tracker/internal/clients/redis"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type Clients struct {
	Gemini        gemini.Client
	StrategyCache redis.StrategyCache
}

// wireClients builds the external clients. Both are optional at startup:
// without Gemini every score write uses the fallback strategy, without
// Redis strategies just aren't cached.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")
	var clients Clients

	gc, err := gemini.NewClient(log)
	if err != nil {
		log.Warn("Gemini client disabled", "error", err)
	} else {
		clients.Gemini = gc
	}

	if os.Getenv("REDIS_ADDR") != "" {
		sc, err := redis.NewStrategyCache(log)
		if err != nil {
			log.Warn("Strategy cache disabled", "error", err)
		} else {
			clients.StrategyCache = sc
		}
	}

	return clients
}
