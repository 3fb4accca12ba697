// Package memstore keeps every collection in process memory. It backs the
// test suites and local development runs.
//
// Transactions are serialized. Each write made inside one records how to
// reverse itself, and a rollback replays those in reverse order, so writes
// made outside the transaction in the meantime survive.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"
	"safepay/internal/repository"
)

type state struct {
	users   map[string]models.User
	creds   map[string]models.Credential
	wallets map[string]models.Wallet
	txs     map[string]models.Transaction
	msgs    map[string]models.Analysis
}

func newState() *state {
	return &state{
		users:   make(map[string]models.User),
		creds:   make(map[string]models.Credential),
		wallets: make(map[string]models.Wallet),
		txs:     make(map[string]models.Transaction),
		msgs:    make(map[string]models.Analysis),
	}
}

type db struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
}

// undoLog collects the inverse of every write made in a transaction. A nil
// log records nothing. Entries run with db.mu held.
type undoLog struct {
	steps []func(st *state)
}

func (l *undoLog) record(step func(st *state)) {
	if l != nil {
		l.steps = append(l.steps, step)
	}
}

func (l *undoLog) rollback(d *db) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(l.steps) - 1; i >= 0; i-- {
		l.steps[i](d.st)
	}
}

type Store struct {
	db   *db
	undo *undoLog
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{db: &db{st: newState()}}
}

func (s *Store) Users() repository.UserStore { return users{s.db, s.undo} }
func (s *Store) Credentials() repository.CredentialStore { return credentials{s.db, s.undo} }
func (s *Store) Wallets() repository.WalletStore { return wallets{s.db, s.undo} }
func (s *Store) Transactions() repository.TransactionStore { return transactions{s.db, s.undo} }
func (s *Store) Messages() repository.MessageStore { return messages{s.db, s.undo} }

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	if s.undo != nil {
		return fn(ctx, s)
	}
	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	undo := &undoLog{}
	if err := fn(ctx, &Store{db: s.db, undo: undo}); err != nil {
		undo.rollback(s.db)
		return err
	}
	return nil
}

// DeleteTransaction removes a transaction record without touching wallet
// histories. Nothing in the service layer deletes transactions; tests use it
// to simulate dangling history entries.
func (s *Store) DeleteTransaction(id string) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.st.txs, id)
}

type users struct {
	db   *db
	undo *undoLog
}

func (r users) Create(_ context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.users[u.ID]; ok {
		return domain.ErrConflict
	}
	for _, existing := range r.db.st.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	r.db.st.users[u.ID] = *u
	id := u.ID
	r.undo.record(func(st *state) { delete(st.users, id) })
	return nil
}

func (r users) GetByID(_ context.Context, id string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.st.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r users) find(match func(models.User) bool) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.st.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type credentials struct {
	db   *db
	undo *undoLog
}

func (r credentials) Create(_ context.Context, c *models.Credential) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.creds[c.UserID]; ok {
		return domain.ErrConflict
	}
	r.db.st.creds[c.UserID] = *c
	userID := c.UserID
	r.undo.record(func(st *state) { delete(st.creds, userID) })
	return nil
}

func (r credentials) GetByUserID(_ context.Context, userID string) (*models.Credential, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.st.creds[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r credentials) SetToken(_ context.Context, userID, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.st.creds[userID]
	if !ok {
		return domain.ErrNotFound
	}
	prev := c.AuthToken
	c.AuthToken = token
	r.db.st.creds[userID] = c
	r.undo.record(func(st *state) {
		if c, ok := st.creds[userID]; ok {
			c.AuthToken = prev
			st.creds[userID] = c
		}
	})
	return nil
}

type wallets struct {
	db   *db
	undo *undoLog
}

func (r wallets) Create(_ context.Context, w *models.Wallet) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.st.wallets {
		if existing.ID == w.ID || existing.UserID == w.UserID {
			return domain.ErrWalletExists
		}
	}
	r.db.st.wallets[w.ID] = copyWallet(*w)
	id := w.ID
	r.undo.record(func(st *state) { delete(st.wallets, id) })
	return nil
}

func (r wallets) GetByUserID(_ context.Context, userID string) (*models.Wallet, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, w := range r.db.st.wallets {
		if w.UserID == userID {
			c := copyWallet(w)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r wallets) AppendHistory(_ context.Context, walletID, transactionID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	w, ok := r.db.st.wallets[walletID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range w.History {
		if id == transactionID {
			return nil
		}
	}
	w.History = append(w.History, transactionID)
	r.db.st.wallets[walletID] = w
	r.undo.record(func(st *state) {
		w, ok := st.wallets[walletID]
		if !ok {
			return
		}
		kept := w.History[:0:0]
		for _, id := range w.History {
			if id != transactionID {
				kept = append(kept, id)
			}
		}
		w.History = kept
		st.wallets[walletID] = w
	})
	return nil
}

type transactions struct {
	db   *db
	undo *undoLog
}

func (r transactions) Create(_ context.Context, t *models.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.txs[t.ID]; ok {
		return domain.ErrConflict
	}
	r.db.st.txs[t.ID] = copyTransaction(*t)
	id := t.ID
	r.undo.record(func(st *state) { delete(st.txs, id) })
	return nil
}

func (r transactions) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	t, ok := r.db.st.txs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := copyTransaction(t)
	return &c, nil
}

func (r transactions) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.st.txs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.Status != domain.StatusPending {
		return domain.ErrInvalidTransition
	}
	prevStatus, prevAt := t.Status, t.UpdatedAt
	t.Status = status
	t.UpdatedAt = &at
	r.db.st.txs[id] = t
	r.undo.record(func(st *state) {
		if t, ok := st.txs[id]; ok {
			t.Status, t.UpdatedAt = prevStatus, prevAt
			st.txs[id] = t
		}
	})
	return nil
}

type messages struct {
	db   *db
	undo *undoLog
}

func (r messages) Create(_ context.Context, a *models.Analysis) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.msgs[a.ID]; ok {
		return domain.ErrConflict
	}
	r.db.st.msgs[a.ID] = copyAnalysis(*a)
	id := a.ID
	r.undo.record(func(st *state) { delete(st.msgs, id) })
	return nil
}

func (r messages) ListByUserID(_ context.Context, userID string) ([]models.Analysis, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var list []models.Analysis
	for _, a := range r.db.st.msgs {
		if a.UserID == userID {
			list = append(list, copyAnalysis(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func copyWallet(w models.Wallet) models.Wallet {
	w.History = append([]string{}, w.History...)
	return w
}

func copyTransaction(t models.Transaction) models.Transaction {
	if t.UpdatedAt != nil {
		at := *t.UpdatedAt
		t.UpdatedAt = &at
	}
	return t
}

func copyAnalysis(a models.Analysis) models.Analysis {
	a.DetectedPatterns = append([]string(nil), a.DetectedPatterns...)
	return a
}
