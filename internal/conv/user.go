package conv

import "kinobot/internal/catalog"

// gateScreen renders the subscription requirement with the current
// partner list.
func (m *Machine) gateScreen(first bool) ([]Render, error) {
	partners, err := m.store.ListPartners()
	if err != nil {
		return nil, err
	}
	return []Render{textRender(subscriptionText(partners, first), subscriptionKeyboard(partners))}, nil
}

// Start handles /start: the session is cleared, then the admission gate
// decides between the subscription screen and the main menu.
func (m *Machine) Start(id Identity) ([]Render, error) {
	m.sessions.Clear(id.UserID)

	gated, err := m.requiresSubscription()
	if err != nil {
		return nil, err
	}
	if gated {
		m.sessions.SetState(id.UserID, StateNeedsSubscription)
		return m.gateScreen(true)
	}
	return []Render{textRender(textWelcome, mainMenuKeyboard())}, nil
}

// CheckSubscription resolves the gate via the checker and admits the
// user on success.
func (m *Machine) CheckSubscription(id Identity) ([]Render, error) {
	ok, err := m.checker.IsSubscribed(id.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return m.gateScreen(false)
	}
	m.sessions.Clear(id.UserID)
	return []Render{textRender(textWelcome, mainMenuKeyboard())}, nil
}

// blockedByGate re-applies the admission gate for a user nominally in
// the subscription state. The gate is a global precondition, so it is
// re-checked at the top of every gated event.
func (m *Machine) blockedByGate(id Identity) (bool, error) {
	if m.sessions.GetState(id.UserID) != StateNeedsSubscription {
		return false, nil
	}
	return m.requiresSubscription()
}

// SearchContent prompts for a code and enters the waiting state.
func (m *Machine) SearchContent(id Identity) ([]Render, error) {
	blocked, err := m.blockedByGate(id)
	if err != nil {
		return nil, err
	}
	if blocked {
		return m.gateScreen(false)
	}

	m.sessions.SetState(id.UserID, StateWaitingForCode)
	return []Render{textRender(textEnterCode, backToMenuKeyboard())}, nil
}

// searchCode looks up the trimmed code. A miss keeps the waiting state
// so the user can retry without re-issuing the prompt.
func (m *Machine) searchCode(id Identity, text string) ([]Render, error) {
	code, ok := trimInput(text)
	if !ok {
		return nil, nil
	}

	entry, found, err := m.store.GetEntry(code)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Render{textRender(textCodeNotFound, backToMenuKeyboard())}, nil
	}

	renders := []Render{{Text: entryTitleText(entry.Title), Photo: entry.Poster}}

	episodes := catalog.CleanEpisodes(entry.Episodes)
	if len(episodes) > 0 {
		renders = append(renders, textRender(textPickEpisode, episodesKeyboard(episodes)))
	} else {
		renders = append(renders, textRender(textComingSoon, backToMenuKeyboard()))
	}

	m.sessions.Clear(id.UserID)
	return renders, nil
}

// ShowPartners lists partner links, or a placeholder when none exist.
func (m *Machine) ShowPartners(id Identity) ([]Render, error) {
	blocked, err := m.blockedByGate(id)
	if err != nil {
		return nil, err
	}
	if blocked {
		return m.gateScreen(false)
	}

	partners, err := m.store.ListPartners()
	if err != nil {
		return nil, err
	}
	if len(partners) == 0 {
		return []Render{textRender(textNoPartners, backToMenuKeyboard())}, nil
	}
	return []Render{textRender(textPartnersHeader, partnersListKeyboard(partners))}, nil
}

// ShowHelp renders the static help text.
func (m *Machine) ShowHelp(id Identity) ([]Render, error) {
	blocked, err := m.blockedByGate(id)
	if err != nil {
		return nil, err
	}
	if blocked {
		return m.gateScreen(false)
	}
	return []Render{textRender(textHelp, backToMenuKeyboard())}, nil
}

// BackToMenu abandons any flow and returns to the main menu.
func (m *Machine) BackToMenu(id Identity) ([]Render, error) {
	blocked, err := m.blockedByGate(id)
	if err != nil {
		return nil, err
	}
	if blocked {
		return m.gateScreen(false)
	}

	m.sessions.Clear(id.UserID)
	return []Render{textRender(textMainMenu, mainMenuKeyboard())}, nil
}
