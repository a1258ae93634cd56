package telegram

import (
	"time"

	coreconfig "kinobot/core/config"
	"kinobot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// DefaultMiddlewares composes the standard middleware chain: panic recovery,
// rate limiting per configuration, then request logging.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited tele.HandlerFunc) []Middleware {
	exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, kind := range cfg.RateLimit.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}

	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "rate_limit", Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:   exclude,
			OnLimited: onLimited,
		})},
		{Name: "logger", Use: middleware.LoggerMiddleware},
	}
}
