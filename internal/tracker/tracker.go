// Package tracker owns the in-memory session list and the current selection.
// A single loop goroutine holds the state; store calls run on caller
// goroutines and come back in as messages, so stale background responses can
// be discarded before they clobber newer state.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mvillareal/gamenight/internal/session"
	"github.com/mvillareal/gamenight/internal/store"
)

var ErrBusy = errors.New("operation already in progress")
var ErrNoSession = errors.New("no session loaded")
var ErrUnknownSession = errors.New("unknown session")
var ErrLastSession = errors.New("cannot delete the last session")

// PrefsKey is dedicated to the remembered selection, distinct from any other
// stored preference.
const PrefsKey = "gamenight.currentSession"

const partialLoadLimit = 3

// Store is the remote session store the tracker persists through.
type Store interface {
	ListSessions(ctx context.Context, opts store.ListOptions) ([]session.Session, error)
	CreateSession(ctx context.Context, s session.Session) (session.Session, error)
	ReplaceSession(ctx context.Context, s session.Session) (session.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteGameAt(ctx context.Context, id string, index int) (session.Session, error)
}

// Prefs is the best-effort key-value capability for the remembered selection.
type Prefs interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

type Msg interface{ isTrackerMsg() }

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isTrackerMsg() {}

type Leave struct{ ClientID string }

func (Leave) isTrackerMsg() {}

type Shutdown struct{}

func (Shutdown) isTrackerMsg() {}

type getView struct{ reply chan View }

func (getView) isTrackerMsg() {}

type beginOp struct {
	name  string
	reply chan beginResult
}

func (beginOp) isTrackerMsg() {}

type beginResult struct {
	view View
	err  error
}

type endOp struct{ name string }

func (endOp) isTrackerMsg() {}

// applySession replaces one session with the server's representation.
type applySession struct{ s session.Session }

func (applySession) isTrackerMsg() {}

type applyCreate struct{ s session.Session }

func (applyCreate) isTrackerMsg() {}

type applyDelete struct{ id string }

func (applyDelete) isTrackerMsg() {}

// applyList replaces the list wholesale; discarded when seq is stale.
type applyList struct {
	seq         uint64
	sessions    []session.Session
	speculative bool // initial partial page: accept the remembered id unseen
}

func (applyList) isTrackerMsg() {}

type issueSeq struct{ reply chan uint64 }

func (issueSeq) isTrackerMsg() {}

type selectSession struct {
	id    string
	reply chan error
}

func (selectSession) isTrackerMsg() {}

type Snapshot struct {
	Version   int               `json:"version"`
	CurrentID string            `json:"currentSessionId"`
	Sessions  []session.Session `json:"sessions"`
}

type View struct {
	Version    int
	NumClients int
	CurrentID  string
	Sessions   []session.Session
}

// Current resolves the displayed session: the current id if present, else the
// most-recently-created one (the current id may be speculative after a
// partial load).
func (v View) Current() (session.Session, bool) {
	if len(v.Sessions) == 0 {
		return session.Session{}, false
	}
	if s, ok := findSession(v.Sessions, v.CurrentID); ok {
		return s, true
	}
	return mostRecent(v.Sessions), true
}

type Tracker struct {
	inbox chan Msg
	store Store
	prefs Prefs
	log   *zap.Logger

	// loop-owned state
	sessions  []session.Session
	currentID string
	version   int
	seq       uint64
	inflight  map[string]bool
	clients   map[string]chan Snapshot

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, st Store, pr Prefs, log *zap.Logger) *Tracker {
	ctx, cancel := context.WithCancel(parent)
	t := &Tracker{
		inbox:    make(chan Msg, 64),
		store:    st,
		prefs:    pr,
		log:      log,
		inflight: make(map[string]bool),
		clients:  make(map[string]chan Snapshot),
		ctx:      ctx,
		cancel:   cancel,
	}
	go t.loop()
	return t
}

func (t *Tracker) Inbox() chan<- Msg { return t.inbox }

// Load is the two-phase initial load: a small page first for a fast first
// render, then the full list in the background. Background failures never
// disrupt the partial data already installed.
func (t *Tracker) Load(ctx context.Context) error {
	partial, err := t.store.ListSessions(ctx, store.ListOptions{Limit: partialLoadLimit, Sort: "-createdAt"})
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	if len(partial) == 0 {
		created, err := t.store.CreateSession(ctx, session.NewDefault())
		if err != nil {
			return fmt.Errorf("bootstrap default session: %w", err)
		}
		partial = []session.Session{created}
	}

	seq := t.nextSeq()
	t.inbox <- applyList{seq: seq, sessions: partial, speculative: true}

	go t.refreshAll(ctx)
	return nil
}

// RefreshAll fetches the authoritative full list without blocking the caller.
func (t *Tracker) RefreshAll(ctx context.Context) {
	go t.refreshAll(ctx)
}

func (t *Tracker) refreshAll(ctx context.Context) {
	seq := t.nextSeq()
	all, err := t.store.ListSessions(ctx, store.ListOptions{Sort: "-createdAt"})
	if err != nil {
		// Swallowed: the partial data already rendered is still valid.
		t.log.Warn("background session refresh failed", zap.Error(err))
		return
	}
	t.inbox <- applyList{seq: seq, sessions: all}
}

func (t *Tracker) AddPlayer(ctx context.Context, name string) error {
	cur, release, err := t.begin("addPlayer")
	if err != nil {
		return err
	}
	defer release()

	updated, err := session.AddPlayer(cur, name)
	if err != nil {
		return err
	}
	persisted, err := t.store.ReplaceSession(ctx, updated)
	if err != nil {
		return err
	}
	t.inbox <- applySession{s: persisted}
	return nil
}

func (t *Tracker) RemovePlayer(ctx context.Context, name string) error {
	cur, release, err := t.begin("removePlayer")
	if err != nil {
		return err
	}
	defer release()

	updated, err := session.RemovePlayer(cur, name)
	if err != nil {
		return err
	}
	persisted, err := t.store.ReplaceSession(ctx, updated)
	if err != nil {
		return err
	}
	t.inbox <- applySession{s: persisted}
	return nil
}

func (t *Tracker) RecordGame(ctx context.Context, game string, winners []string) error {
	cur, release, err := t.begin("recordGame")
	if err != nil {
		return err
	}
	defer release()

	date := time.Now().Format(session.DateLayout)
	updated, err := session.RecordGame(cur, game, winners, date)
	if err != nil {
		return err
	}
	persisted, err := t.store.ReplaceSession(ctx, updated)
	if err != nil {
		return err
	}
	t.inbox <- applySession{s: persisted}
	return nil
}

// DeleteGame deletes by record id; the positional wire call is derived from
// the current in-memory ordering right before the send.
func (t *Tracker) DeleteGame(ctx context.Context, recordID string) error {
	cur, release, err := t.begin("deleteGame")
	if err != nil {
		return err
	}
	defer release()

	idx, err := session.IndexOfGame(cur, recordID)
	if err != nil {
		return err
	}
	persisted, err := t.store.DeleteGameAt(ctx, cur.ID, idx)
	if err != nil {
		return err
	}
	t.inbox <- applySession{s: persisted}
	return nil
}

func (t *Tracker) CreateSession(ctx context.Context, name string) (session.Session, error) {
	_, release, err := t.beginAny("createSession")
	if err != nil {
		return session.Session{}, err
	}
	defer release()

	name = strings.TrimSpace(name)
	if name == "" {
		return session.Session{}, session.ErrEmptySessionName
	}
	created, err := t.store.CreateSession(ctx, session.New(name))
	if err != nil {
		return session.Session{}, err
	}
	t.inbox <- applyCreate{s: created}
	return created, nil
}

func (t *Tracker) DeleteSession(ctx context.Context, id string) error {
	view, release, err := t.beginAny("deleteSession")
	if err != nil {
		return err
	}
	defer release()

	if _, ok := findSession(view.Sessions, id); !ok {
		return ErrUnknownSession
	}
	// Last-remaining-session policy is enforced here, not assumed server-side.
	if len(view.Sessions) <= 1 {
		return ErrLastSession
	}
	if err := t.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	t.inbox <- applyDelete{id: id}
	return nil
}

func (t *Tracker) SelectSession(id string) error {
	reply := make(chan error, 1)
	t.inbox <- selectSession{id: id, reply: reply}
	return <-reply
}

func (t *Tracker) View() View {
	reply := make(chan View, 1)
	t.inbox <- getView{reply: reply}
	return <-reply
}

// begin reserves an operation slot and returns the session being mutated.
func (t *Tracker) begin(op string) (session.Session, func(), error) {
	view, release, err := t.beginAny(op)
	if err != nil {
		return session.Session{}, nil, err
	}
	cur, ok := view.Current()
	if !ok {
		release()
		return session.Session{}, nil, ErrNoSession
	}
	return cur, release, nil
}

func (t *Tracker) beginAny(op string) (View, func(), error) {
	reply := make(chan beginResult, 1)
	t.inbox <- beginOp{name: op, reply: reply}
	res := <-reply
	if res.err != nil {
		return View{}, nil, res.err
	}
	return res.view, func() { t.inbox <- endOp{name: op} }, nil
}

func (t *Tracker) nextSeq() uint64 {
	reply := make(chan uint64, 1)
	t.inbox <- issueSeq{reply: reply}
	return <-reply
}

func (t *Tracker) loop() {
	for {
		select {
		case <-t.ctx.Done():
			t.shutdown()
			return

		case m := <-t.inbox:
			switch msg := m.(type) {
			case Join:
				t.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- t.snapshot()

			case Leave:
				delete(t.clients, msg.ClientID)

			case getView:
				msg.reply <- t.view()

			case beginOp:
				if t.inflight[msg.name] {
					msg.reply <- beginResult{err: ErrBusy}
					break
				}
				t.inflight[msg.name] = true
				msg.reply <- beginResult{view: t.view()}

			case endOp:
				delete(t.inflight, msg.name)

			case issueSeq:
				t.seq++
				msg.reply <- t.seq

			case applyList:
				if msg.seq != t.seq {
					t.log.Debug("discarding stale session list", zap.Uint64("seq", msg.seq))
					break
				}
				t.applySessions(msg.sessions, msg.speculative)

			case applySession:
				t.replaceSession(msg.s)
				t.bump()

			case applyCreate:
				t.sessions = append(cloneSessions(t.sessions), msg.s)
				t.setCurrent(msg.s.ID)
				t.bump()

			case applyDelete:
				next := make([]session.Session, 0, len(t.sessions))
				for _, s := range t.sessions {
					if s.ID != msg.id {
						next = append(next, s)
					}
				}
				t.sessions = next
				if t.currentID == msg.id {
					remembered, _ := t.prefs.Get(PrefsKey)
					t.setCurrent(resolveCurrent(t.sessions, remembered, ""))
				}
				t.bump()

			case selectSession:
				if _, ok := findSession(t.sessions, msg.id); !ok {
					msg.reply <- ErrUnknownSession
					break
				}
				t.setCurrent(msg.id)
				t.bump()
				msg.reply <- nil

			case Shutdown:
				t.shutdown()
				return
			}
		}
	}
}

func (t *Tracker) applySessions(sessions []session.Session, speculative bool) {
	t.sessions = sessions
	remembered, _ := t.prefs.Get(PrefsKey)
	if speculative && remembered != "" {
		// The remembered session may only appear in the full list later.
		t.setCurrent(remembered)
	} else {
		t.setCurrent(resolveCurrent(sessions, remembered, t.currentID))
	}
	t.bump()
}

func (t *Tracker) replaceSession(s session.Session) {
	next := cloneSessions(t.sessions)
	for i := range next {
		if next[i].ID == s.ID {
			next[i] = s
			t.sessions = next
			return
		}
	}
	t.sessions = append(next, s)
}

func (t *Tracker) setCurrent(id string) {
	if id == "" || id == t.currentID {
		t.currentID = id
		return
	}
	t.currentID = id
	t.prefs.Set(PrefsKey, id)
}

func (t *Tracker) bump() {
	t.version++
	t.broadcast(t.snapshot())
}

func (t *Tracker) snapshot() Snapshot {
	return Snapshot{Version: t.version, CurrentID: t.currentID, Sessions: t.sessions}
}

func (t *Tracker) view() View {
	return View{
		Version:    t.version,
		NumClients: len(t.clients),
		CurrentID:  t.currentID,
		Sessions:   t.sessions,
	}
}

func (t *Tracker) broadcast(snap Snapshot) {
	for id, ch := range t.clients {
		select {
		case ch <- snap:
			// ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(t.clients, id)
		}
	}
}

func (t *Tracker) shutdown() {
	for id, ch := range t.clients {
		close(ch)
		delete(t.clients, id)
	}
	t.cancel()
}

func cloneSessions(sessions []session.Session) []session.Session {
	out := make([]session.Session, len(sessions))
	copy(out, sessions)
	return out
}
