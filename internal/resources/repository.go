package resources

import (
	"context"
	"errors"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrVideoNotFound   = errors.New("video not found")
)

// Repository contains the DB interactions for articles and videos.
type Repository interface {
	CreateArticle(ctx context.Context, a *Article) (*Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*Article, error)

	// ListArticles filters by a case-insensitive title substring when query
	// is non-empty; newest first.
	ListArticles(ctx context.Context, query string, limit, offset int) ([]Article, error)
	CountArticles(ctx context.Context, query string) (int, error)

	IncrementViews(ctx context.Context, slug string) error
	IncrementLikes(ctx context.Context, slug string) error

	CreateVideo(ctx context.Context, v *Video) (*Video, error)
	ListVideos(ctx context.Context, query string) ([]Video, error)
}
