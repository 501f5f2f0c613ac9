package controllers

import (
	"net/http"

	"blogplatform/app/models"
	"blogplatform/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// Index lists the comments of a post, newest first.
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postId", "post")
	if !ok {
		return
	}

	comments, err := cc.commentService.ListPostComments(r.Context(), postID)
	if err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusOK, comments)
}

// Create handles creating a new comment
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postId", "post")
	if !ok {
		return
	}

	var comment models.Comment
	if !decodeJSON(w, r, &comment) {
		return
	}

	if err := cc.commentService.CreateComment(r.Context(), postID, &comment); err != nil {
		sendServiceError(w, r, "Post not found", err)
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}

// Update applies a partial update to a comment found by its own id.
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postId", "post")
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId", "comment")
	if !ok {
		return
	}

	var patch models.CommentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	comment, err := cc.commentService.UpdateComment(r.Context(), postID, commentID, patch)
	if err != nil {
		sendServiceError(w, r, "Comment not found", err)
		return
	}
	sendJSON(w, http.StatusOK, comment)
}

// Delete removes a comment by id. The post id in the path is not checked.
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "commentId", "comment")
	if !ok {
		return
	}

	if err := cc.commentService.DeleteComment(r.Context(), commentID); err != nil {
		sendServiceError(w, r, "Comment not found", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
