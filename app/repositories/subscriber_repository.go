package repositories

import (
	"context"
	"encoding/binary"
	"fmt"

	"blogplatform/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSubscriberRepository implements SubscriberRepository using BadgerDB.
// A unique email index enforces one record per address.
type BadgerSubscriberRepository struct {
	db *badger.DB
}

// NewBadgerSubscriberRepository creates a new BadgerSubscriberRepository
func NewBadgerSubscriberRepository(db *badger.DB) *BadgerSubscriberRepository {
	return &BadgerSubscriberRepository{db: db}
}

func subscriberEmailKey(email string) []byte {
	return []byte(SubscriberEmailKeyPrefix + models.NormalizeEmail(email))
}

func lookupSubscriberID(txn *badger.Txn, email string) (int64, error) {
	item, err := txn.Get(subscriberEmailKey(email))
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt email index for %q", email)
		}
		id = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	return id, err
}

// Create inserts a subscriber, failing with ErrDuplicateEmail if the address exists
func (r *BadgerSubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := lookupSubscriberID(txn, subscriber.Email)
		if err == nil {
			return ErrDuplicateEmail
		}
		if err != ErrNotFound {
			return err
		}

		id, err := getNextID(txn, SubscriberSeqKey)
		if err != nil {
			return err
		}
		subscriber.ID = id

		data, err := marshalEntity(subscriber)
		if err != nil {
			return err
		}
		if err := txn.Set(entityKey(SubscriberKeyPrefix, id), data); err != nil {
			return err
		}

		idBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(idBytes, uint64(id))
		return txn.Set(subscriberEmailKey(subscriber.Email), idBytes)
	})
}

// GetByEmail retrieves a subscriber by email address
func (r *BadgerSubscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupSubscriberID(txn, email)
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(SubscriberKeyPrefix, id), &subscriber)
	})
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// ExistsByEmail reports whether any subscriber, active or not, uses the address
func (r *BadgerSubscriberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := lookupSubscriberID(txn, email)
		return err
	})
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListActive retrieves every subscriber with the active flag set
func (r *BadgerSubscriberRepository) ListActive(ctx context.Context) ([]*models.Subscriber, error) {
	subscribers := []*models.Subscriber{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(SubscriberKeyPrefix), func(s *models.Subscriber) {
			if s.Active {
				subscribers = append(subscribers, s)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return subscribers, nil
}

// Update saves a subscriber. Email and subscription time cannot change.
func (r *BadgerSubscriberRepository) Update(ctx context.Context, subscriber *models.Subscriber) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(SubscriberKeyPrefix, subscriber.ID)

		var existing models.Subscriber
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		subscriber.Email = existing.Email
		subscriber.SubscribedAt = existing.SubscribedAt

		data, err := marshalEntity(subscriber)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}
