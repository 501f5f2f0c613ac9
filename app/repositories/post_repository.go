package repositories

import (
	"context"
	"sort"
	"strings"

	"blogplatform/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// storedPost strips the comments, which live under their own keys.
func storedPost(post *models.Post) models.Post {
	cp := *post
	cp.Comments = nil
	return cp
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		data, err := marshalEntity(storedPost(post))
		if err != nil {
			return err
		}
		return txn.Set(entityKey(PostKeyPrefix, post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post, newest first
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.filter(func(*models.Post) bool { return true })
}

// ListByCategory retrieves posts whose category matches, ignoring case
func (r *BadgerPostRepository) ListByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.MatchesCategory(category) })
}

// Search retrieves posts whose title, author or category contain term
func (r *BadgerPostRepository) Search(ctx context.Context, term string) ([]*models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.MatchesSearch(term) })
}

// Categories returns the distinct categories in use, sorted
func (r *BadgerPostRepository) Categories(ctx context.Context) ([]string, error) {
	posts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range posts {
		if strings.TrimSpace(p.Category) == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, post.ID)

		var existing models.Post
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		// Creation time is immutable.
		post.CreatedAt = existing.CreatedAt

		data, err := marshalEntity(storedPost(post))
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, id)

		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(key)
	})
}

func (r *BadgerPostRepository) filter(keep func(*models.Post) bool) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(PostKeyPrefix), func(p *models.Post) {
			if keep(p) {
				posts = append(posts, p)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	SortPostsNewestFirst(posts)
	return posts, nil
}
