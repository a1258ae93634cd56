package conv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinobot/core/telegram/state"
	"kinobot/internal/catalog"
)

const adminName = "the_admin"

var (
	admin = Identity{UserID: 1, Username: adminName}
	user  = Identity{UserID: 2, Username: "random_user"}
)

func newTestMachine(t *testing.T) (*Machine, catalog.Store, state.Manager) {
	t.Helper()
	dir := t.TempDir()
	store, err := catalog.NewSnapshotStore(filepath.Join(dir, "movies.json"), filepath.Join(dir, "partners.json"))
	require.NoError(t, err)
	sessions := state.NewMemoryManager()
	return NewMachine(store, sessions, nil, adminName), store, sessions
}

func TestStartWithoutPartnersShowsMainMenu(t *testing.T) {
	m, _, sessions := newTestMachine(t)

	renders, err := m.Start(user)
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textWelcome, renders[0].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(user.UserID))
}

func TestStartWithPartnersRequiresSubscription(t *testing.T) {
	m, store, sessions := newTestMachine(t)
	require.NoError(t, store.AddPartner("@partner_one"))

	renders, err := m.Start(user)
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, StateNeedsSubscription, sessions.GetState(user.UserID))
	assert.Contains(t, renders[0].Text, "подпишись")

	// Partner link row plus the check affordance.
	require.Len(t, renders[0].Keyboard, 2)
	assert.Equal(t, "https://t.me/partner_one", renders[0].Keyboard[0][0].URL)
	assert.Equal(t, ActionCheckSubscription, renders[0].Keyboard[1][0].Action)
}

func TestCheckSubscriptionAlwaysAdmits(t *testing.T) {
	m, store, sessions := newTestMachine(t)
	require.NoError(t, store.AddPartner("@partner_one"))

	_, err := m.Start(user)
	require.NoError(t, err)
	require.Equal(t, StateNeedsSubscription, sessions.GetState(user.UserID))

	renders, err := m.CheckSubscription(user)
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textWelcome, renders[0].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(user.UserID))
}

func TestGateReappliedOnGatedEvents(t *testing.T) {
	m, store, sessions := newTestMachine(t)
	require.NoError(t, store.AddPartner("@partner_one"))
	_, err := m.Start(user)
	require.NoError(t, err)

	for name, event := range map[string]func(Identity) ([]Render, error){
		"search":   m.SearchContent,
		"partners": m.ShowPartners,
		"help":     m.ShowHelp,
		"back":     m.BackToMenu,
	} {
		renders, err := event(user)
		require.NoError(t, err, name)
		require.Len(t, renders, 1, name)
		assert.Contains(t, renders[0].Text, "подпишись", name)
		assert.Equal(t, StateNeedsSubscription, sessions.GetState(user.UserID), name)
	}
}

func TestGateLiftsWhenPartnersRemoved(t *testing.T) {
	m, store, sessions := newTestMachine(t)
	require.NoError(t, store.AddPartner("@partner_one"))
	_, err := m.Start(user)
	require.NoError(t, err)

	// The admin deletes the only partner while the user sits at the gate.
	_, err = store.DeletePartner("@partner_one")
	require.NoError(t, err)

	renders, err := m.SearchContent(user)
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textEnterCode, renders[0].Text)
	assert.Equal(t, StateWaitingForCode, sessions.GetState(user.UserID))
}

func TestSearchNotFoundKeepsWaitingState(t *testing.T) {
	m, store, sessions := newTestMachine(t)
	require.NoError(t, store.PutEntry(catalog.Entry{Code: "777", Title: "Hit"}))

	_, err := m.SearchContent(user)
	require.NoError(t, err)

	renders, err := m.Text(user, "000")
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textCodeNotFound, renders[0].Text)
	assert.Equal(t, StateWaitingForCode, sessions.GetState(user.UserID))

	// An immediately retried valid code succeeds without a fresh prompt.
	renders, err = m.Text(user, " 777 ")
	require.NoError(t, err)
	require.Len(t, renders, 2)
	assert.Equal(t, entryTitleText("Hit"), renders[0].Text)
	assert.Equal(t, textComingSoon, renders[1].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(user.UserID))
}

func TestSearchFoundWithEpisodes(t *testing.T) {
	m, store, _ := newTestMachine(t)
	require.NoError(t, store.PutEntry(catalog.Entry{
		Code:     "5",
		Title:    "Show",
		Poster:   "poster-ref",
		Episodes: []string{"https://e/1", "https://e/2"},
	}))

	_, err := m.SearchContent(user)
	require.NoError(t, err)

	renders, err := m.Text(user, "5")
	require.NoError(t, err)
	require.Len(t, renders, 2)
	assert.Equal(t, "poster-ref", renders[0].Photo)
	assert.Equal(t, textPickEpisode, renders[1].Text)

	// Two episode rows plus the back row.
	require.Len(t, renders[1].Keyboard, 3)
	assert.Equal(t, "▶ Эпизод 1", renders[1].Keyboard[0][0].Label)
	assert.Equal(t, "https://e/2", renders[1].Keyboard[1][0].URL)
}

func TestAdminAddMovieFlow(t *testing.T) {
	m, store, sessions := newTestMachine(t)

	renders, err := m.AdminAddMovie(admin)
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textEnterMovieCode, renders[0].Text)

	steps := []struct {
		input  string
		prompt string
	}{
		{"777", textEnterMovieTitle},
		{"Some Show", textEnterMoviePoster},
		{"poster-ref", textEnterMovieEpisodes},
	}
	for _, step := range steps {
		renders, err = m.Text(admin, step.input)
		require.NoError(t, err)
		require.Len(t, renders, 1)
		assert.Equal(t, step.prompt, renders[0].Text)
	}

	renders, err = m.Text(admin, "a, b ,,c")
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textMovieAdded, renders[0].Text)

	entry, ok, err := store.GetEntry("777")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Some Show", entry.Title)
	assert.Equal(t, "poster-ref", entry.Poster)
	assert.Equal(t, []string{"a", "b", "c"}, entry.Episodes)

	assert.Equal(t, state.StateIdle, sessions.GetState(admin.UserID))
	assert.Zero(t, sessions.TempLen(admin.UserID), "data bag cleared after commit")
}

func TestAdminFlowIgnoresEmptyInput(t *testing.T) {
	m, _, sessions := newTestMachine(t)

	_, err := m.AdminAddMovie(admin)
	require.NoError(t, err)

	renders, err := m.Text(admin, "   ")
	require.NoError(t, err)
	assert.Empty(t, renders, "empty input produces no renders")
	assert.Equal(t, StateWaitingMovieCode, sessions.GetState(admin.UserID))
}

func TestAdminDeleteMovieFlow(t *testing.T) {
	m, store, sessions := newTestMachine(t)
	require.NoError(t, store.PutEntry(catalog.Entry{Code: "13", Title: "Doomed"}))

	_, err := m.AdminDeleteMovie(admin)
	require.NoError(t, err)

	renders, err := m.Text(admin, "13")
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textMovieDeleted, renders[0].Text)

	_, ok, err := store.GetEntry("13")
	require.NoError(t, err)
	assert.False(t, ok)

	// Missing code still clears the flow.
	_, err = m.AdminDeleteMovie(admin)
	require.NoError(t, err)
	renders, err = m.Text(admin, "13")
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textMovieNotFoundDelete, renders[0].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(admin.UserID))
}

func TestAdminAddPartnerFlow(t *testing.T) {
	m, store, _ := newTestMachine(t)

	_, err := m.AddPartner(admin)
	require.NoError(t, err)

	renders, err := m.Text(admin, "channel_x")
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, textPartnerAdded, renders[0].Text)

	partners, err := store.ListPartners()
	require.NoError(t, err)
	assert.Equal(t, []string{"@channel_x"}, partners)
}

func TestAdminDeletePartnerStateless(t *testing.T) {
	m, store, _ := newTestMachine(t)
	require.NoError(t, store.AddPartner("@a"))
	require.NoError(t, store.AddPartner("@b"))

	renders, err := m.DeletePartner(admin, "@a")
	require.NoError(t, err)
	require.Len(t, renders, 2)
	assert.Equal(t, textPartnerDeleted, renders[0].Toast)
	assert.Contains(t, renders[1].Text, "@b")
	assert.NotContains(t, renders[1].Text, "@a")

	partners, err := store.ListPartners()
	require.NoError(t, err)
	assert.Equal(t, []string{"@b"}, partners)
}

func TestAdminStatistics(t *testing.T) {
	m, store, _ := newTestMachine(t)
	require.NoError(t, store.PutEntry(catalog.Entry{Code: "1", Title: "One"}))
	require.NoError(t, store.PutEntry(catalog.Entry{Code: "2", Title: "Two"}))
	require.NoError(t, store.AddPartner("@p"))

	renders, err := m.AdminStatistics(admin)
	require.NoError(t, err)
	require.Len(t, renders, 1)
	assert.Equal(t, statisticsText(2, 1), renders[0].Text)
}

func TestNonAdminNeverMutates(t *testing.T) {
	m, store, sessions := newTestMachine(t)

	events := map[string]func() ([]Render, error){
		"command": func() ([]Render, error) { return m.AdminCommand(user) },
		"menu":    func() ([]Render, error) { return m.AdminMenu(user) },
		"add":     func() ([]Render, error) { return m.AdminAddMovie(user) },
		"delete":  func() ([]Render, error) { return m.AdminDeleteMovie(user) },
		"partner": func() ([]Render, error) { return m.AddPartner(user) },
		"manage":  func() ([]Render, error) { return m.AdminManagePartners(user) },
		"delpart": func() ([]Render, error) { return m.DeletePartner(user, "@x") },
		"stats":   func() ([]Render, error) { return m.AdminStatistics(user) },
	}
	for name, event := range events {
		renders, err := event()
		require.NoError(t, err, name)
		require.Len(t, renders, 1, name)
		denied := renders[0].Toast == textAccessDenied || renders[0].Text == textAccessDenied
		assert.True(t, denied, "%s must respond access denied", name)
		assert.Equal(t, state.StateIdle, sessions.GetState(user.UserID), name)
	}

	n, err := store.CountEntries()
	require.NoError(t, err)
	assert.Zero(t, n)
	p, err := store.CountPartners()
	require.NoError(t, err)
	assert.Zero(t, p)
}

func TestNonAdminTextInAdminStateIgnored(t *testing.T) {
	m, store, sessions := newTestMachine(t)

	// Force an admin state for a non-admin session to prove the identity
	// gate on text input.
	sessions.SetState(user.UserID, StateWaitingPartnerLink)

	renders, err := m.Text(user, "@sneaky")
	require.NoError(t, err)
	assert.Empty(t, renders)

	n, err := store.CountPartners()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStartClearsActiveFlow(t *testing.T) {
	m, _, sessions := newTestMachine(t)

	_, err := m.SearchContent(user)
	require.NoError(t, err)
	require.True(t, m.InProgress(user.UserID))

	_, err = m.Start(user)
	require.NoError(t, err)
	assert.Equal(t, state.StateIdle, sessions.GetState(user.UserID))
	assert.False(t, m.InProgress(user.UserID))
}
