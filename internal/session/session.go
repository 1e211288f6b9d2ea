package session

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyPlayerName = errors.New("empty player name")
var ErrDuplicatePlayer = errors.New("player already in session")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrEmptyGameName = errors.New("empty game name")
var ErrNoWinners = errors.New("no winners selected")
var ErrUnknownGame = errors.New("unknown game record")
var ErrEmptySessionName = errors.New("empty session name")

// DateLayout matches the M/D/YYYY dates the store already holds.
const DateLayout = "1/2/2006"

type GameRecord struct {
	ID     string `json:"id,omitempty"`
	Game   string `json:"game"`
	Winner string `json:"winner"`
	Date   string `json:"date"`
}

type Session struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Players   []string     `json:"players"`
	Games     []GameRecord `json:"games"` // newest first
	CreatedAt time.Time    `json:"createdAt,omitempty"`
}

// New returns an unpersisted session with a fresh id.
func New(name string) Session {
	return Session{
		ID:        uuid.NewString(),
		Name:      name,
		Players:   []string{},
		Games:     []GameRecord{},
		CreatedAt: time.Now(),
	}
}

// NewDefault is the session bootstrapped when the store is empty.
func NewDefault() Session {
	s := New("Default Session")
	s.ID = "default"
	return s
}

// AddPlayer appends the trimmed name. The input session is not modified.
func AddPlayer(s Session, name string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyPlayerName
	}
	if slices.Contains(s.Players, name) {
		return s, ErrDuplicatePlayer
	}

	out := s
	out.Players = append(slices.Clone(s.Players), name)
	return out, nil
}

// RemovePlayer drops the player and every game record they won. Orphaned
// winner records must not persist.
func RemovePlayer(s Session, name string) (Session, error) {
	idx := slices.Index(s.Players, name)
	if idx < 0 {
		return s, ErrUnknownPlayer
	}

	out := s
	out.Players = slices.Delete(slices.Clone(s.Players), idx, idx+1)
	out.Games = make([]GameRecord, 0, len(s.Games))
	for _, g := range s.Games {
		if g.Winner != name {
			out.Games = append(out.Games, g)
		}
	}
	return out, nil
}

// RecordGame prepends one record per winner, all sharing the same game name
// and date. Records are never appended; newest-first ordering is an invariant.
func RecordGame(s Session, game string, winners []string, date string) (Session, error) {
	game = strings.TrimSpace(game)
	if game == "" {
		return s, ErrEmptyGameName
	}
	if len(winners) == 0 {
		return s, ErrNoWinners
	}
	for _, w := range winners {
		if !slices.Contains(s.Players, w) {
			return s, ErrUnknownPlayer
		}
	}

	records := make([]GameRecord, 0, len(winners)+len(s.Games))
	for _, w := range winners {
		records = append(records, GameRecord{
			ID:     uuid.NewString(),
			Game:   game,
			Winner: w,
			Date:   date,
		})
	}
	out := s
	out.Games = append(records, s.Games...)
	return out, nil
}

// IndexOfGame resolves a record id to its position in the current ordering,
// for the store's positional delete.
func IndexOfGame(s Session, recordID string) (int, error) {
	for i, g := range s.Games {
		if g.ID == recordID {
			return i, nil
		}
	}
	return 0, ErrUnknownGame
}

// IsValidation reports whether err is one of the input-validation errors that
// are caught before any store call.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyPlayerName,
		ErrDuplicatePlayer,
		ErrEmptyGameName,
		ErrNoWinners,
		ErrEmptySessionName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
