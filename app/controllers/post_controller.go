package controllers

import (
	"context"
	"net/http"

	"blogplatform/app/models"
	"blogplatform/app/services"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if !decodeJSON(w, r, &post) {
		return
	}

	if err := pc.postService.CreatePost(r.Context(), &post); err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// Update applies a partial update of title, content and author.
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	var patch models.PostPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), id, patch)
	if err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	if err := pc.postService.DeletePost(r.Context(), id); err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByCategory lists posts in a category.
func (pc *PostController) ByCategory(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.PostsByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// Search matches the searchTerm query parameter.
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.SearchPosts(r.Context(), r.URL.Query().Get("searchTerm"))
	if err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// Categories lists the distinct categories.
func (pc *PostController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := pc.postService.Categories(r.Context())
	if err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusOK, categories)
}

// Like increments the like counter.
func (pc *PostController) Like(w http.ResponseWriter, r *http.Request) {
	pc.bump(w, r, pc.postService.LikePost)
}

// Share increments the share counter.
func (pc *PostController) Share(w http.ResponseWriter, r *http.Request) {
	pc.bump(w, r, pc.postService.SharePost)
}

func (pc *PostController) bump(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) (*models.Post, error)) {
	id, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	post, err := op(r.Context(), id)
	if err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}
