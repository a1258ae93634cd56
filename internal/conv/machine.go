// Package conv implements the conversation state machine: two disjoint
// flows (user search, admin catalog management) driven by inbound
// events and a per-user session registry. Handlers are pure with
// respect to the transport: they mutate sessions and the catalog store
// and return render instructions for the boundary to execute.
package conv

import (
	"strings"

	"kinobot/core/telegram/state"
	"kinobot/internal/catalog"
)

// Identity names the caller of an event.
type Identity struct {
	UserID   int64
	Username string
}

// Machine dispatches conversation events. Per-user serialization is the
// caller's duty (wrap event handling in the session manager's Do).
type Machine struct {
	store    catalog.Store
	sessions state.Manager
	checker  SubscriptionChecker

	// adminUsername is compared exactly, case-sensitive, without @.
	adminUsername string
}

// NewMachine builds the state machine. A nil checker falls back to the
// accept-all stub.
func NewMachine(store catalog.Store, sessions state.Manager, checker SubscriptionChecker, adminUsername string) *Machine {
	if checker == nil {
		checker = AcceptAllChecker()
	}
	return &Machine{
		store:         store,
		sessions:      sessions,
		checker:       checker,
		adminUsername: adminUsername,
	}
}

// InProgress reports whether the user has an active flow.
func (m *Machine) InProgress(userID int64) bool {
	return m.sessions.InProgress(userID)
}

// Sessions exposes the session manager for per-user serialization.
func (m *Machine) Sessions() state.Manager {
	return m.sessions
}

// Text handles free text according to the user's current flow state.
// Text outside any flow produces no renders.
func (m *Machine) Text(id Identity, text string) ([]Render, error) {
	switch st := m.sessions.GetState(id.UserID); st {
	case StateWaitingForCode:
		return m.searchCode(id, text)
	case StateWaitingMovieCode, StateWaitingMovieTitle, StateWaitingMoviePoster,
		StateWaitingMovieEpisodes, StateWaitingDeleteCode, StateWaitingPartnerLink:
		return m.adminText(id, st, text)
	default:
		return nil, nil
	}
}

func (m *Machine) isAdmin(id Identity) bool {
	return m.adminUsername != "" && id.Username == m.adminUsername
}

// trimInput trims the raw text. Empty input in a flow step is silently
// ignored: the flow state stays put and no prompt is re-sent.
func trimInput(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}
