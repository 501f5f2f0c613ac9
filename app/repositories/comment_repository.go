package repositories

import (
	"context"
	"fmt"

	"blogplatform/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments are keyed by post so listing a post's comments is a prefix scan;
// a secondary index maps comment ID to that key.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

func commentKey(postID, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", CommentKeyPrefix, postID, id))
}

func commentPostPrefix(postID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", CommentKeyPrefix, postID))
}

// lookupCommentKey resolves a comment ID to its primary key.
func lookupCommentKey(txn *badger.Txn, id int64) ([]byte, error) {
	item, err := txn.Get(entityKey(CommentIndexPrefix, id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}

		key := commentKey(comment.PostID, comment.ID)
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(entityKey(CommentIndexPrefix, comment.ID), key)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := lookupCommentKey(txn, id)
		if err != nil {
			return err
		}
		return getEntity(txn, key, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post, newest first
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, commentPostPrefix(postID), func(c *models.Comment) {
			comments = append(comments, c)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for post %d: %w", postID, err)
	}
	SortCommentsNewestFirst(comments)
	return comments, nil
}

// Update updates an existing comment. The owning post and creation time are
// kept from the stored record.
func (r *BadgerCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := lookupCommentKey(txn, comment.ID)
		if err != nil {
			return err
		}

		var existing models.Comment
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		comment.PostID = existing.PostID
		comment.CreatedAt = existing.CreatedAt

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := lookupCommentKey(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(entityKey(CommentIndexPrefix, id))
	})
}
