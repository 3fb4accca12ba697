// Package docstore implements repository.Store on Cloud Firestore. Each
// collection is a top-level Firestore collection keyed by the record id;
// credentials share the user's id.
package docstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"
	"safepay/internal/repository"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

var _ repository.Store = (*Store)(nil)

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Users() repository.UserStore { return users{s} }
func (s *Store) Credentials() repository.CredentialStore { return credentials{s} }
func (s *Store) Wallets() repository.WalletStore { return wallets{s} }
func (s *Store) Transactions() repository.TransactionStore { return transactions{s} }
func (s *Store) Messages() repository.MessageStore { return messages{s} }

// RunInTx maps onto Firestore's RunTransaction, which may call fn more than
// once when documents it read change underneath it.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &Store{client: s.client, tx: tx})
	})
}

func (s *Store) col(name string) *firestore.CollectionRef {
	return s.client.Collection(name)
}

func (s *Store) get(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	var (
		snap *firestore.DocumentSnapshot
		err  error
	)
	if s.tx != nil {
		snap, err = s.tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}
	if err != nil {
		return nil, translate(err)
	}
	return snap, nil
}

func (s *Store) documents(ctx context.Context, q firestore.Query) *firestore.DocumentIterator {
	if s.tx != nil {
		return s.tx.Documents(q)
	}
	return q.Documents(ctx)
}

func (s *Store) first(ctx context.Context, q firestore.Query) (*firestore.DocumentSnapshot, error) {
	it := s.documents(ctx, q.Limit(1))
	defer it.Stop()
	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return snap, nil
}

func (s *Store) all(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	it := s.documents(ctx, q)
	defer it.Stop()
	snaps, err := it.GetAll()
	if err != nil {
		return nil, translate(err)
	}
	return snaps, nil
}

func (s *Store) create(ctx context.Context, ref *firestore.DocumentRef, data any) error {
	var err error
	if s.tx != nil {
		err = s.tx.Create(ref, data)
	} else {
		_, err = ref.Create(ctx, data)
	}
	return translate(err)
}

func (s *Store) update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	var err error
	if s.tx != nil {
		err = s.tx.Update(ref, updates)
	} else {
		_, err = ref.Update(ctx, updates)
	}
	return translate(err)
}

func translate(err error) error {
	switch status.Code(err) {
	case codes.OK:
		return err
	case codes.NotFound:
		return domain.ErrNotFound
	case codes.AlreadyExists:
		return domain.ErrConflict
	}
	return err
}

type users struct{ s *Store }

func (r users) Create(ctx context.Context, u *models.User) error {
	return r.s.create(ctx, r.s.col(domain.CollectionUsers).Doc(u.ID), toUserDoc(u))
}

func (r users) GetByID(ctx context.Context, id string) (*models.User, error) {
	snap, err := r.s.get(ctx, r.s.col(domain.CollectionUsers).Doc(id))
	if err != nil {
		return nil, err
	}
	return decodeUser(snap)
}

func (r users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r users) findBy(ctx context.Context, field, value string) (*models.User, error) {
	snap, err := r.s.first(ctx, r.s.col(domain.CollectionUsers).Where(field, "==", value))
	if err != nil {
		return nil, err
	}
	return decodeUser(snap)
}

type credentials struct{ s *Store }

func (r credentials) Create(ctx context.Context, c *models.Credential) error {
	return r.s.create(ctx, r.s.col(domain.CollectionKeys).Doc(c.UserID), toKeyDoc(c))
}

func (r credentials) GetByUserID(ctx context.Context, userID string) (*models.Credential, error) {
	snap, err := r.s.get(ctx, r.s.col(domain.CollectionKeys).Doc(userID))
	if err != nil {
		return nil, err
	}
	var d keyDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.model(), nil
}

func (r credentials) SetToken(ctx context.Context, userID, token string) error {
	return r.s.update(ctx, r.s.col(domain.CollectionKeys).Doc(userID), []firestore.Update{
		{Path: "authToken", Value: token},
	})
}

type wallets struct{ s *Store }

// Create writes the wallet document. The one-wallet-per-user rule is
// checked by the caller inside a transaction; Firestore has no unique index.
func (r wallets) Create(ctx context.Context, w *models.Wallet) error {
	err := r.s.create(ctx, r.s.col(domain.CollectionWallets).Doc(w.ID), toWalletDoc(w))
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrWalletExists
	}
	return err
}

func (r wallets) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	snap, err := r.s.first(ctx, r.s.col(domain.CollectionWallets).Where("userID", "==", userID))
	if err != nil {
		return nil, err
	}
	var d walletDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.model(snap.Ref.ID), nil
}

func (r wallets) AppendHistory(ctx context.Context, walletID, transactionID string) error {
	return r.s.update(ctx, r.s.col(domain.CollectionWallets).Doc(walletID), []firestore.Update{
		{Path: "history", Value: firestore.ArrayUnion(transactionID)},
	})
}

type transactions struct{ s *Store }

func (r transactions) Create(ctx context.Context, t *models.Transaction) error {
	return r.s.create(ctx, r.s.col(domain.CollectionTransactions).Doc(t.ID), toTransactionDoc(t))
}

func (r transactions) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	snap, err := r.s.get(ctx, r.s.col(domain.CollectionTransactions).Doc(id))
	if err != nil {
		return nil, err
	}
	var d transactionDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.model(snap.Ref.ID)
}

// UpdateStatus re-reads the document inside the transaction so the pending
// check and the write commit together. Outside a transaction it opens one.
func (r transactions) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	return r.s.RunInTx(ctx, func(ctx context.Context, s repository.Store) error {
		tx := s.(*Store)
		ref := tx.col(domain.CollectionTransactions).Doc(id)
		snap, err := tx.get(ctx, ref)
		if err != nil {
			return err
		}
		current, err := snap.DataAt("status")
		if err != nil {
			return err
		}
		if current != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		return tx.update(ctx, ref, []firestore.Update{
			{Path: "status", Value: status},
			{Path: "updatedAt", Value: at},
		})
	})
}

type messages struct{ s *Store }

func (r messages) Create(ctx context.Context, a *models.Analysis) error {
	return r.s.create(ctx, r.s.col(domain.CollectionMessages).Doc(a.ID), toMessageDoc(a))
}

func (r messages) ListByUserID(ctx context.Context, userID string) ([]models.Analysis, error) {
	snaps, err := r.s.all(ctx, r.s.col(domain.CollectionMessages).Where("userID", "==", userID))
	if err != nil {
		return nil, err
	}
	list := make([]models.Analysis, 0, len(snaps))
	for _, snap := range snaps {
		var d messageDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		list = append(list, *d.model(snap.Ref.ID))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*models.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.model(snap.Ref.ID), nil
}
