package conv

import (
	"kinobot/core/telegram/state"
	"kinobot/internal/catalog"
)

// denied is the terminal no-op for non-admin callers: no session or
// store mutation, only an access-denied response.
func denied(asAlert bool) []Render {
	if asAlert {
		return []Render{toast(textAccessDenied, true)}
	}
	return []Render{{Text: textAccessDenied}}
}

// AdminCommand handles /admin. Denial is a plain text reply because the
// event arrives as a message, not a button press.
func (m *Machine) AdminCommand(id Identity) ([]Render, error) {
	if !m.isAdmin(id) {
		return denied(false), nil
	}
	m.sessions.Clear(id.UserID)
	return []Render{textRender(textAdminMenu, adminMenuKeyboard())}, nil
}

// AdminMenu returns to the admin menu from a button press.
func (m *Machine) AdminMenu(id Identity) ([]Render, error) {
	if !m.isAdmin(id) {
		return denied(true), nil
	}
	m.sessions.Clear(id.UserID)
	return []Render{textRender(textAdminMenu, adminMenuKeyboard())}, nil
}

// AdminAddMovie starts the four-step add-entry flow.
func (m *Machine) AdminAddMovie(id Identity) ([]Render, error) {
	if !m.isAdmin(id) {
		return denied(true), nil
	}
	// Starting a flow drops any previous flow's state and data bag.
	m.sessions.Clear(id.UserID)
	m.sessions.SetState(id.UserID, StateWaitingMovieCode)
	return []Render{{Text: textEnterMovieCode}}, nil
}

// AdminDeleteMovie starts the delete-entry flow.
func (m *Machine) AdminDeleteMovie(id Identity) ([]Render, error) {
	if !m.isAdmin(id) {
		return denied(true), nil
	}
	m.sessions.Clear(id.UserID)
	m.sessions.SetState(id.UserID, StateWaitingDeleteCode)
	return []Render{{Text: textEnterDeleteCode}}, nil
}

// AddPartner starts the add-partner flow.
func (m *Machine) AddPartner(id Identity) ([]Render, error) {
	if !m.isAdmin(id) {
		return denied(true), nil
	}
	m.sessions.Clear(id.UserID)
	m.sessions.SetState(id.UserID, StateWaitingPartnerLink)
	return []Render{{Text: textEnterPartnerLink}}, nil
}

// AdminManagePartners is stateless: it re-renders the current partner
// list with per-partner delete buttons.
func (m *Machine) AdminManagePartners(id Identity) ([]Render, error) {
	if !m.isAdmin(id) {
		return denied(true), nil
	}
	partners, err := m.store.ListPartners()
	if err != nil {
		return nil, err
	}
	return []Render{textRender(managePartnersText(partners), partnersManagementKeyboard(partners))}, nil
}

// DeletePartner removes the handle and refreshes the management screen.
func (m *Machine) DeletePartner(id Identity, handle string) ([]Render, error) {
	if !m.isAdmin(id) {
		return denied(true), nil
	}
	if _, err := m.store.DeletePartner(handle); err != nil {
		return nil, err
	}
	partners, err := m.store.ListPartners()
	if err != nil {
		return nil, err
	}
	return []Render{
		toast(textPartnerDeleted, false),
		textRender(managePartnersText(partners), partnersManagementKeyboard(partners)),
	}, nil
}

// AdminStatistics reads entry and partner counts into a fixed template.
func (m *Machine) AdminStatistics(id Identity) ([]Render, error) {
	if !m.isAdmin(id) {
		return denied(true), nil
	}
	movies, err := m.store.CountEntries()
	if err != nil {
		return nil, err
	}
	partners, err := m.store.CountPartners()
	if err != nil {
		return nil, err
	}
	return []Render{textRender(statisticsText(movies, partners), adminMenuKeyboard())}, nil
}

// adminText advances the active admin flow with one free-text input.
// Non-admin text and empty input are silently ignored.
func (m *Machine) adminText(id Identity, st state.State, text string) ([]Render, error) {
	if !m.isAdmin(id) {
		return nil, nil
	}
	input, ok := trimInput(text)
	if !ok {
		return nil, nil
	}

	switch st {
	case StateWaitingMovieCode:
		m.sessions.SetTemp(id.UserID, fieldCode, input)
		m.sessions.SetState(id.UserID, StateWaitingMovieTitle)
		return []Render{{Text: textEnterMovieTitle}}, nil

	case StateWaitingMovieTitle:
		m.sessions.SetTemp(id.UserID, fieldTitle, input)
		m.sessions.SetState(id.UserID, StateWaitingMoviePoster)
		return []Render{{Text: textEnterMoviePoster}}, nil

	case StateWaitingMoviePoster:
		m.sessions.SetTemp(id.UserID, fieldPoster, input)
		m.sessions.SetState(id.UserID, StateWaitingMovieEpisodes)
		return []Render{{Text: textEnterMovieEpisodes}}, nil

	case StateWaitingMovieEpisodes:
		return m.commitAddMovie(id, input)

	case StateWaitingDeleteCode:
		return m.commitDeleteMovie(id, input)

	case StateWaitingPartnerLink:
		return m.commitAddPartner(id, input)
	}
	return nil, nil
}

func (m *Machine) commitAddMovie(id Identity, episodesRaw string) ([]Render, error) {
	code, _ := m.sessions.GetTemp(id.UserID, fieldCode)
	title, _ := m.sessions.GetTemp(id.UserID, fieldTitle)
	poster, _ := m.sessions.GetTemp(id.UserID, fieldPoster)

	err := m.store.PutEntry(catalog.Entry{
		Code:     code,
		Title:    title,
		Poster:   poster,
		Episodes: catalog.SplitEpisodes(episodesRaw),
	})
	if err != nil {
		return nil, err
	}

	m.sessions.Clear(id.UserID)
	return []Render{textRender(textMovieAdded, adminMenuKeyboard())}, nil
}

func (m *Machine) commitDeleteMovie(id Identity, code string) ([]Render, error) {
	removed, err := m.store.DeleteEntry(code)
	if err != nil {
		return nil, err
	}

	m.sessions.Clear(id.UserID)
	text := textMovieNotFoundDelete
	if removed {
		text = textMovieDeleted
	}
	return []Render{textRender(text, adminMenuKeyboard())}, nil
}

func (m *Machine) commitAddPartner(id Identity, handle string) ([]Render, error) {
	if err := m.store.AddPartner(catalog.NormalizePartner(handle)); err != nil {
		return nil, err
	}

	m.sessions.Clear(id.UserID)
	return []Render{textRender(textPartnerAdded, adminMenuKeyboard())}, nil
}
