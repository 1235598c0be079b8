// Package session sequences a full masked-priming session.
//
// NewSession fixes the per-session draws (subject id and key assignment).
// Driver then shows the instruction screens, runs the practice block, shows
// the practice-over screen and runs the main block. Before every trial the
// subject paces the session with a keypress; that wait has no timeout and is
// the only point where the context is consulted.
//
// Any scheduler error ends the session. Results gathered so far are returned
// alongside the error so the caller can decide what to persist.
package session
