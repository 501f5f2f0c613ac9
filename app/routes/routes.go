package routes

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"blogplatform/app/controllers"
	"blogplatform/app/middleware"
	"blogplatform/app/services"

	"github.com/gorilla/mux"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Posts         *services.PostService
	Comments      *services.CommentService
	Subscribers   *services.SubscriberService
	Notifications *services.NotificationService
	Uploads       *services.UploadService
	Store         controllers.StatusChecker

	StaticDir      string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewHandler returns the router wrapped in the middleware that must run
// before routing, so CORS preflights reach the CORS handler.
func NewHandler(deps Deps) http.Handler {
	var h http.Handler = SetupRoutes(deps)
	h = middleware.CORS(deps.AllowedOrigins)(h)
	h = middleware.RealIP(h)
	h = middleware.RequestID(h)
	return h
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Deps) *mux.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.ContentTypeJSON)

	router.NotFoundHandler = jsonFallback(http.StatusNotFound, "Not found")
	router.MethodNotAllowedHandler = jsonFallback(http.StatusMethodNotAllowed, "Method not allowed")

	postController := controllers.NewPostController(deps.Posts)
	commentController := controllers.NewCommentController(deps.Comments)
	subscriberController := controllers.NewSubscriberController(deps.Subscribers, deps.Notifications, logger)
	fileController := controllers.NewFileController(deps.Uploads, logger)
	healthController := controllers.NewHealthController(deps.Store, deps.StaticDir)

	// API routes are registered with full paths on the root router. A
	// PathPrefix subrouter makes mux drop a method mismatch as soon as a
	// later sibling matches the prefix, turning 405 into 404.
	const posts = "/api/posts"
	const post = posts + "/{id:[0-9]+}"
	const comments = posts + "/{postId:[0-9]+}/comments"

	// Posts API endpoints. Fixed segments are registered before {id}.
	router.HandleFunc(posts, postController.Index).Methods("GET")
	router.HandleFunc(posts, postController.Create).Methods("POST")
	router.HandleFunc(posts+"/categories", postController.Categories).Methods("GET")
	router.HandleFunc(posts+"/search", postController.Search).Methods("GET")
	router.HandleFunc(posts+"/category/{category}", postController.ByCategory).Methods("GET")
	router.HandleFunc(post, postController.Show).Methods("GET")
	router.HandleFunc(post, postController.Update).Methods("PATCH")
	router.HandleFunc(post, postController.Delete).Methods("DELETE")
	router.HandleFunc(post+"/like", postController.Like).Methods("POST")
	router.HandleFunc(post+"/share", postController.Share).Methods("POST")

	// Comments API endpoints
	router.HandleFunc(comments, commentController.Index).Methods("GET")
	router.HandleFunc(comments, commentController.Create).Methods("POST")
	router.HandleFunc(comments+"/{commentId:[0-9]+}", commentController.Update).Methods("PATCH")
	router.HandleFunc(comments+"/{commentId:[0-9]+}", commentController.Delete).Methods("DELETE")

	// Subscription and mail
	router.HandleFunc("/api/subscribe", subscriberController.Subscribe).Methods("POST")
	router.HandleFunc("/api/unsubscribe", subscriberController.Unsubscribe).Methods("POST")
	router.HandleFunc("/api/send-post-email", subscriberController.SendPostEmail).Methods("POST")

	router.HandleFunc("/api/files/upload", fileController.Upload).Methods("POST")

	router.HandleFunc("/health", healthController.Health).Methods("GET")
	router.HandleFunc("/db-status", healthController.DBStatus).Methods("GET")

	// Uploaded and static files
	router.PathPrefix(services.UploadURLPrefix).Handler(
		http.StripPrefix(services.UploadURLPrefix, http.FileServer(http.Dir(deps.Uploads.Dir()))),
	).Methods("GET", "HEAD")
	if deps.StaticDir != "" {
		router.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))),
		).Methods("GET", "HEAD")
	}
	router.HandleFunc("/", healthController.Home).Methods("GET")

	return router
}

func jsonFallback(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.Error(w, http.StatusText(status), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	})
}
