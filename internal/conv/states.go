package conv

import "kinobot/core/telegram/state"

// User flow states.
const (
	StateNeedsSubscription state.State = "user:needs_subscription"
	StateWaitingForCode    state.State = "user:waiting_for_code"
)

// Admin flow states. The add-entry flow is linear, each state collecting
// a single field into the session data bag.
const (
	StateWaitingMovieCode     state.State = "admin:waiting_for_movie_code"
	StateWaitingMovieTitle    state.State = "admin:waiting_for_movie_title"
	StateWaitingMoviePoster   state.State = "admin:waiting_for_movie_poster"
	StateWaitingMovieEpisodes state.State = "admin:waiting_for_movie_episodes"
	StateWaitingDeleteCode    state.State = "admin:waiting_for_delete_code"
	StateWaitingPartnerLink   state.State = "admin:waiting_for_partner_link"
)

// Data bag field names used by the add-entry flow.
const (
	fieldCode   = "code"
	fieldTitle  = "title"
	fieldPoster = "poster"
)
