package community

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/fitfood/internal/featurestore"
)

const (
	anonymousAuthor = "Anonymous"
	defaultAvatar   = "https://randomuser.me/api/portraits/lego/1.jpg"
	maxContentRunes = 2000
)

var (
	ErrEmptyContent   = errors.New("post content is required")
	ErrContentTooLong = errors.New("post content is too long")
	ErrPostNotFound   = errors.New("post not found")
)

type Post struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	User      string    `json:"user"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Shares    int       `json:"shares"`
}

// Reaction is one of the post counters.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionComment Reaction = "comment"
	ReactionShare   Reaction = "share"
)

func (r Reaction) apply(p *Post) bool {
	switch r {
	case ReactionLike:
		p.Likes++
	case ReactionComment:
		p.Comments++
	case ReactionShare:
		p.Shares++
	default:
		return false
	}
	return true
}

// Feed is the global list of posts, newest first.
type Feed struct {
	posts *featurestore.Document[[]Post]
	now   func() time.Time
}

func NewFeed(docs *featurestore.Documents) *Feed {
	return &Feed{
		posts: featurestore.NewDocument(docs, featurestore.FeatureCommunityPosts, func() []Post {
			return []Post{}
		}),
		now: time.Now,
	}
}

func (f *Feed) List(ctx context.Context) ([]Post, error) {
	return f.posts.Get(ctx, featurestore.GlobalOwner)
}

func (f *Feed) CreatePost(ctx context.Context, userID, author, content string) (*Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > maxContentRunes {
		return nil, ErrContentTooLong
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = anonymousAuthor
	}

	var created Post
	if _, err := f.posts.Update(ctx, featurestore.GlobalOwner, func(posts *[]Post) error {
		now := f.now()
		taken := make([]int64, 0, len(*posts))
		for _, p := range *posts {
			taken = append(taken, p.ID)
		}
		created = Post{
			ID:        featurestore.NextID(now, taken...),
			UserID:    userID,
			User:      author,
			Avatar:    defaultAvatar,
			Content:   content,
			CreatedAt: now.UTC(),
		}
		*posts = append([]Post{created}, *posts...)
		return nil
	}); err != nil {
		return nil, err
	}

	return &created, nil
}

// React increments a counter of the post within one optimistic update, so
// concurrent reactions are never lost.
func (f *Feed) React(ctx context.Context, postID int64, reaction Reaction) (*Post, error) {
	var reacted Post
	if _, err := f.posts.Update(ctx, featurestore.GlobalOwner, func(posts *[]Post) error {
		for i := range *posts {
			if (*posts)[i].ID != postID {
				continue
			}
			if !reaction.apply(&(*posts)[i]) {
				return errors.New("unknown reaction: " + string(reaction))
			}
			reacted = (*posts)[i]
			return nil
		}
		return ErrPostNotFound
	}); err != nil {
		return nil, err
	}

	return &reacted, nil
}
