package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blogplatform/app/repositories"
	"blogplatform/app/services"
)

// SubscriberController serves newsletter sign-up and on-demand mail.
type SubscriberController struct {
	subscriberService   *services.SubscriberService
	notificationService *services.NotificationService
	logger              *slog.Logger
}

func NewSubscriberController(subscriberService *services.SubscriberService, notificationService *services.NotificationService, logger *slog.Logger) *SubscriberController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriberController{
		subscriberService:   subscriberService,
		notificationService: notificationService,
		logger:              logger,
	}
}

type subscribeRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
}

type sendPostRequest struct {
	Email string `json:"email"`
	// PostID accepts both 12 and "12".
	PostID json.Number `json:"postId"`
}

func sendResult(w http.ResponseWriter, status int, success bool, message string) {
	sendJSON(w, status, Result{Success: success, Message: message})
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendResult(w, http.StatusBadRequest, false, "Invalid request body")
		return false
	}
	return true
}

// Subscribe registers an email for new post notifications.
func (sc *SubscriberController) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	_, err := sc.subscriberService.Subscribe(r.Context(), req.Email, req.FirstName)
	switch {
	case err == nil:
		sendResult(w, http.StatusOK, true, "Successfully subscribed! You'll receive new blog posts via email.")
	case errors.Is(err, services.ErrAlreadySubscribed):
		sendResult(w, http.StatusBadRequest, false, "Email already subscribed!")
	case services.IsValidation(err):
		sendResult(w, http.StatusBadRequest, false, err.Error())
	default:
		sc.logger.ErrorContext(r.Context(), "subscribe failed", "error", err)
		sendResult(w, http.StatusInternalServerError, false, "Failed to subscribe")
	}
}

// Unsubscribe deactivates an email. Unknown addresses are reported in the
// body of a 200 response.
func (sc *SubscriberController) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	err := sc.subscriberService.Unsubscribe(r.Context(), req.Email)
	switch {
	case err == nil:
		sendResult(w, http.StatusOK, true, "Successfully unsubscribed!")
	case errors.Is(err, repositories.ErrNotFound):
		sendResult(w, http.StatusOK, false, "Email not found in subscribers list!")
	default:
		sc.logger.ErrorContext(r.Context(), "unsubscribe failed", "error", err)
		sendResult(w, http.StatusInternalServerError, false, "Failed to unsubscribe")
	}
}

// SendPostEmail mails one post to an arbitrary address.
func (sc *SubscriberController) SendPostEmail(w http.ResponseWriter, r *http.Request) {
	var req sendPostRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	postID, err := req.PostID.Int64()
	if err != nil || postID <= 0 {
		sendResult(w, http.StatusBadRequest, false, "A valid postId is required")
		return
	}

	err = sc.notificationService.SendPostToEmail(r.Context(), req.Email, postID)
	switch {
	case err == nil:
		sendResult(w, http.StatusOK, true, "Blog post sent to your email successfully!")
	case errors.Is(err, repositories.ErrNotFound):
		sendResult(w, http.StatusNotFound, false, "Blog post not found!")
	case services.IsValidation(err):
		sendResult(w, http.StatusBadRequest, false, err.Error())
	default:
		sc.logger.ErrorContext(r.Context(), "send post email failed", "post_id", postID, "error", err)
		sendResult(w, http.StatusInternalServerError, false, "Failed to send email")
	}
}
