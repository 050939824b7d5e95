package community

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitfood/internal/auth"
	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=community_test

type feed interface {
	List(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, userID, author, content string) (*Post, error)
	React(ctx context.Context, postID int64, reaction Reaction) (*Post, error)
}

// authorNames resolves the display name of a user.
type authorNames interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

type Handler struct {
	feed    feed
	authors authorNames
}

func NewHandler(feed feed, authors authorNames) *Handler {
	return &Handler{
		feed:    feed,
		authors: authors,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.community.list")
	defer span.End()

	posts, err := handler.feed.List(ctx)
	if err != nil {
		log.Errorf("list community posts: %s", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, posts, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.community.create")
	defer span.End()

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create post, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := auth.UserIDFromContext(ctx)
	author := ""
	if userID != "" && handler.authors != nil {
		name, err := handler.authors.DisplayName(ctx, userID)
		if err != nil {
			log.Warnf("author name of [%s]: %s", userID, err)
		}
		author = name
	}

	post, err := handler.feed.CreatePost(ctx, userID, author, req.Content)
	if err != nil {
		handler.writeError(w, err)
		return
	}

	pkg.WriteJSON(w, post, http.StatusCreated)
}

// HandleReact serves the like, comment and share routes.
func (handler *Handler) HandleReact(reaction Reaction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.community."+string(reaction))
		defer span.End()

		postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "invalid post id", http.StatusBadRequest)
			return
		}

		post, err := handler.feed.React(ctx, postID, reaction)
		if err != nil {
			handler.writeError(w, err)
			return
		}

		pkg.WriteJSON(w, post, http.StatusOK)
	}
}

func (handler *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrPostNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("community: %s", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
