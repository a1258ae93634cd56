// Package bot binds the conversation machine to the Telegram transport:
// command and callback registration, per-user serialization, and render
// execution.
package bot

import (
	coreconfig "kinobot/core/config"
	tg "kinobot/core/telegram"
	"kinobot/core/telegram/callbacks"
	"kinobot/core/telegram/commands"
	"kinobot/core/telegram/router"
	"kinobot/internal/conv"

	tele "gopkg.in/telebot.v4"
)

func identityOf(c tele.Context) conv.Identity {
	if s := c.Sender(); s != nil {
		return conv.Identity{UserID: s.ID, Username: s.Username}
	}
	return conv.Identity{}
}

// handle wraps a machine event: the user's session lock serializes the
// event, then the resulting renders are executed on the transport.
func handle(m *conv.Machine, event func(conv.Identity) ([]conv.Render, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		id := identityOf(c)
		return m.Sessions().Do(id.UserID, func() error {
			renders, err := event(id)
			if err != nil {
				return err
			}
			return execute(c, renders)
		})
	}
}

// fsmAdapter routes in-flow free text into the machine.
type fsmAdapter struct {
	m *conv.Machine
}

func (a fsmAdapter) InProgress(userID int64) bool {
	return a.m.InProgress(userID)
}

func (a fsmAdapter) HandleText(c tele.Context) error {
	id := identityOf(c)
	text := c.Text()
	return a.m.Sessions().Do(id.UserID, func() error {
		renders, err := a.m.Text(id, text)
		if err != nil {
			return err
		}
		return execute(c, renders)
	})
}

// New wires the machine into a command/callback registry and the route
// list consumed by the Telegram runtime.
func New(cfg *coreconfig.Config, m *conv.Machine) (*tg.Registry, []tg.Route) {
	reg := tg.NewRegistry()

	adminCommand := handle(m, m.AdminCommand)

	reg.RegisterCommand("/start", commands.Command{
		Handler:     handle(m, m.Start),
		Description: "Главное меню",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     adminCommand,
		Description: "Админ-панель",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(conv.ActionCheckSubscription, handle(m, m.CheckSubscription))
	_ = reg.RegisterCallback(conv.ActionSearchContent, handle(m, m.SearchContent))
	_ = reg.RegisterCallback(conv.ActionShowPartners, handle(m, m.ShowPartners))
	_ = reg.RegisterCallback(conv.ActionShowHelp, handle(m, m.ShowHelp))
	_ = reg.RegisterCallback(conv.ActionBackToMenu, handle(m, m.BackToMenu))

	_ = reg.RegisterCallback(conv.ActionAdminMenu, handle(m, m.AdminMenu))
	_ = reg.RegisterCallback(conv.ActionAdminAddMovie, handle(m, m.AdminAddMovie))
	_ = reg.RegisterCallback(conv.ActionAdminDeleteMovie, handle(m, m.AdminDeleteMovie))
	_ = reg.RegisterCallback(conv.ActionAdminManagePartners, handle(m, m.AdminManagePartners))
	_ = reg.RegisterCallback(conv.ActionAdminStatistics, handle(m, m.AdminStatistics))
	_ = reg.RegisterCallback(conv.ActionAddPartner, handle(m, m.AddPartner))
	_ = reg.RegisterCallback(conv.ActionDeletePartner, func(c tele.Context) error {
		id := identityOf(c)
		payload := callbacks.CallbackPayload(c)
		return m.Sessions().Do(id.UserID, func() error {
			renders, err := m.DeletePartner(id, payload)
			if err != nil {
				return err
			}
			return execute(c, renders)
		})
	})

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminUsername: cfg.Admin.Username,
		OnAdminReject: adminCommand,
	})
	routes = append(routes, router.TextRoutes(fsmAdapter{m: m}, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return reg, routes
}
