package tracker

import "github.com/mvillareal/gamenight/internal/session"

// resolveCurrent picks the current session id against an evolving list.
// Priority: the remembered id if still present, then the previously selected
// id if still present (the selection must not flicker to a different session
// while the user's chosen one exists), then the most-recently-created session.
func resolveCurrent(sessions []session.Session, remembered, current string) string {
	if len(sessions) == 0 {
		return ""
	}
	if remembered != "" {
		if _, ok := findSession(sessions, remembered); ok {
			return remembered
		}
	}
	if current != "" {
		if _, ok := findSession(sessions, current); ok {
			return current
		}
	}
	return mostRecent(sessions).ID
}

func findSession(sessions []session.Session, id string) (session.Session, bool) {
	for _, s := range sessions {
		if s.ID == id {
			return s, true
		}
	}
	return session.Session{}, false
}

// mostRecent is by creation time; ties keep the server's list order.
func mostRecent(sessions []session.Session) session.Session {
	best := sessions[0]
	for _, s := range sessions[1:] {
		if s.CreatedAt.After(best.CreatedAt) {
			best = s
		}
	}
	return best
}
