package store

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fallback messages used when the server gave none or was unreachable.
const (
	MsgLogin         = "An error occurred during login"
	MsgRegister      = "An error occurred during registration"
	MsgLogout        = "An error occurred during logout"
	MsgFetchNotes    = "Failed to fetch notes"
	MsgAddNote       = "Failed to add note"
	MsgUpdateNote    = "Failed to update note"
	MsgDeleteNote    = "Failed to delete note"
	MsgUpdateProfile = "Failed to update profile"
)

// Store serializes state mutations; actions may run concurrently and the
// last one to settle decides IsLoading and Error. Actions never return
// errors: read Snapshot or Subscribe instead.
type Store struct {
	api     API
	persist Persister
	logger  *logrus.Logger

	mu       sync.RWMutex
	state    State
	initDone chan struct{}

	// persistMu orders cache writes the same way as the state changes.
	persistMu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

func New(api API, persist Persister, logger *logrus.Logger) *Store {
	if persist == nil {
		persist = NewMemoryPersister()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Store{api: api, persist: persist, logger: logger, subs: make(map[int]func(State))}
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe calls fn with a snapshot after every state change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

type persisted struct {
	User  *User  `json:"user"`
	Notes []Note `json:"notes"`
}

// Restore loads the cached user and notes. IsInitialized is not part of the
// cache, so Initialize still reconciles with the server afterwards.
func (s *Store) Restore(ctx context.Context) error {
	raw, err := s.persist.Get(ctx, StorageKey)
	if err != nil || raw == nil {
		return err
	}
	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.WithError(err).Warn("discarding unreadable client cache")
		return s.persist.Delete(ctx, StorageKey)
	}
	s.apply(ctx, false, func(st *State) {
		st.User = p.User
		st.Notes = p.Notes
	})
	return nil
}

// Initialize asks the server who is signed in, once per process. Any failure
// means no session and is not recorded as an error. A call made while another
// is in flight waits for that one to settle, or for ctx to end.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.state.IsInitialized {
		s.mu.Unlock()
		return
	}
	if done := s.initDone; done != nil {
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return
	}
	done := make(chan struct{})
	s.initDone = done
	s.state.IsLoading = true
	s.mu.Unlock()
	defer close(done)
	s.notify()

	u, err := s.api.Me(ctx)
	if err != nil {
		s.logger.WithError(err).Debug("initialize: no session")
	}
	s.apply(ctx, true, func(st *State) {
		if err != nil {
			st.User = nil
			st.Notes = nil
		} else {
			st.User = u
		}
		st.IsInitialized = true
		st.IsLoading = false
	})
}

func (s *Store) Login(ctx context.Context, email, password string) {
	s.begin()
	u, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.fail("login", err, MsgLogin)
		return
	}
	s.commit(ctx, func(st *State) { st.User = u })
}

func (s *Store) Register(ctx context.Context, username, email, password string) {
	s.begin()
	u, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		s.fail("register", err, MsgRegister)
		return
	}
	s.commit(ctx, func(st *State) { st.User = u })
}

func (s *Store) Logout(ctx context.Context) {
	s.begin()
	if err := s.api.Logout(ctx); err != nil {
		s.fail("logout", err, MsgLogout)
		return
	}
	s.commit(ctx, func(st *State) {
		st.User = nil
		st.Notes = nil
	})
}

func (s *Store) FetchNotes(ctx context.Context) {
	s.begin()
	notes, err := s.api.ListNotes(ctx)
	if err != nil {
		s.fail("fetch notes", err, MsgFetchNotes)
		return
	}
	s.commit(ctx, func(st *State) { st.Notes = notes })
}

func (s *Store) AddNote(ctx context.Context, title, content string) {
	s.begin()
	n, err := s.api.CreateNote(ctx, title, content)
	if err != nil {
		s.fail("add note", err, MsgAddNote)
		return
	}
	s.commit(ctx, func(st *State) { st.Notes = append(st.Notes, *n) })
}

func (s *Store) UpdateNote(ctx context.Context, id, title, content string) {
	s.begin()
	n, err := s.api.UpdateNote(ctx, id, title, content)
	if err != nil {
		s.fail("update note", err, MsgUpdateNote)
		return
	}
	s.commit(ctx, func(st *State) {
		for i := range st.Notes {
			if st.Notes[i].ID == id {
				st.Notes[i] = *n
			}
		}
	})
}

func (s *Store) DeleteNote(ctx context.Context, id string) {
	s.begin()
	if err := s.api.DeleteNote(ctx, id); err != nil {
		s.fail("delete note", err, MsgDeleteNote)
		return
	}
	s.commit(ctx, func(st *State) {
		kept := st.Notes[:0]
		for _, n := range st.Notes {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		st.Notes = kept
	})
}

// UpdateProfile merges the returned user over the cached one.
func (s *Store) UpdateProfile(ctx context.Context, in ProfileUpdate) {
	s.begin()
	u, err := s.api.UpdateProfile(ctx, in)
	if err != nil {
		s.fail("update profile", err, MsgUpdateProfile)
		return
	}
	s.commit(ctx, func(st *State) {
		if st.User == nil {
			st.User = u
			return
		}
		merged := *st.User
		if u.ID != "" {
			merged.ID = u.ID
		}
		if u.Username != "" {
			merged.Username = u.Username
		}
		if u.Email != "" {
			merged.Email = u.Email
		}
		st.User = &merged
	})
}

// ClearError drops a recorded failure, e.g. after the UI has shown it.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) fail(action string, err error, fallback string) {
	s.logger.WithError(err).WithField("action", action).Debug("action failed")
	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Error = messageOr(err, fallback)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) commit(ctx context.Context, fn func(*State)) {
	s.apply(ctx, true, func(st *State) {
		fn(st)
		st.IsLoading = false
	})
}

// apply mutates state under the lock, then persists and notifies outside it.
// persistMu spans both steps so cache writes land in state order.
func (s *Store) apply(ctx context.Context, save bool, fn func(*State)) {
	s.persistMu.Lock()
	s.mu.Lock()
	fn(&s.state)
	snap := persisted{User: s.state.User, Notes: s.state.Notes}
	raw, err := json.Marshal(snap)
	s.mu.Unlock()

	if save {
		if err == nil {
			err = s.persist.Set(ctx, StorageKey, raw)
		}
		if err != nil {
			s.logger.WithError(err).Warn("persist client cache failed")
		}
	}
	s.persistMu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	snap := s.Snapshot()
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
