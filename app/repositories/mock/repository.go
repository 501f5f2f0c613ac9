package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"blogplatform/app/models"
	"blogplatform/app/repositories"
)

// PostRepository is an in-memory repositories.PostRepository. Records are
// copied in and out so callers cannot mutate stored state.
type PostRepository struct {
	posts  map[int64]*models.Post
	nextID int64
	mutex  sync.RWMutex
}

type CommentRepository struct {
	comments map[int64]*models.Comment
	nextID   int64
	mutex    sync.RWMutex
}

type SubscriberRepository struct {
	subscribers map[int64]*models.Subscriber
	nextID      int64
	mutex       sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int64]*models.Post),
		nextID: 1,
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int64]*models.Post)
	m.nextID = 1
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int64]*models.Comment),
		nextID:   1,
	}
}

func NewSubscriberRepository() *SubscriberRepository {
	return &SubscriberRepository{
		subscribers: make(map[int64]*models.Subscriber),
		nextID:      1,
	}
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	cp.Comments = nil
	return &cp
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return copyPost(post), nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	post.CreatedAt = existing.CreatedAt
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return m.filter(func(*models.Post) bool { return true }), nil
}

func (m *PostRepository) ListByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool { return p.MatchesCategory(category) }), nil
}

func (m *PostRepository) Search(ctx context.Context, term string) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool { return p.MatchesSearch(term) }), nil
}

func (m *PostRepository) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range m.filter(func(p *models.Post) bool { return strings.TrimSpace(p.Category) != "" }) {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *PostRepository) filter(keep func(*models.Post) bool) []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for _, post := range m.posts {
		if keep(post) {
			posts = append(posts, copyPost(post))
		}
	}
	repositories.SortPostsNewestFirst(posts)
	return posts
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *comment
	return &cp, nil
}

func (m *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.comments[comment.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	comment.PostID = existing.PostID
	comment.CreatedAt = existing.CreatedAt
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *CommentRepository) Delete(ctx context.Context, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			cp := *comment
			comments = append(comments, &cp)
		}
	}
	repositories.SortCommentsNewestFirst(comments)
	return comments, nil
}

// SubscriberRepository implementation
func (m *SubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.subscribers {
		if strings.EqualFold(existing.Email, subscriber.Email) {
			return repositories.ErrDuplicateEmail
		}
	}
	subscriber.ID = m.nextID
	m.nextID++
	cp := *subscriber
	m.subscribers[subscriber.ID] = &cp
	return nil
}

func (m *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, existing := range m.subscribers {
		if strings.EqualFold(existing.Email, email) {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *SubscriberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *SubscriberRepository) ListActive(ctx context.Context) ([]*models.Subscriber, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	subscribers := []*models.Subscriber{}
	for id := int64(1); id < m.nextID; id++ {
		if s, ok := m.subscribers[id]; ok && s.Active {
			cp := *s
			subscribers = append(subscribers, &cp)
		}
	}
	return subscribers, nil
}

func (m *SubscriberRepository) Update(ctx context.Context, subscriber *models.Subscriber) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.subscribers[subscriber.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	subscriber.Email = existing.Email
	subscriber.SubscribedAt = existing.SubscribedAt
	cp := *subscriber
	m.subscribers[subscriber.ID] = &cp
	return nil
}
