package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions defines how admin-only checks should behave.
// Username is compared exactly (case-sensitive) against the sender's
// Telegram username, without the @ prefix.
type AdminOptions struct {
	Username string
	OnReject tele.HandlerFunc
}

// IsAdmin reports whether the sender of the update matches the configured
// admin username.
func IsAdmin(c tele.Context, username string) bool {
	if username == "" {
		return false
	}
	sender := c.Sender()
	return sender != nil && sender.Username == username
}

// AdminOnlyMiddleware ensures that only the admin user can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !IsAdmin(c, opts.Username) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
