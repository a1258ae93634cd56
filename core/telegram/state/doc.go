// Package state provides an in-memory session registry for Telegram bots:
// per-user FSM state, a string data bag scoped to one multi-step flow, and
// per-user mutual exclusion so events from the same user never interleave.
package state
