package resources

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ActivityLogger is the slice of the progress service used for read/like
// side effects. Logging failures never fail the read itself.
type ActivityLogger interface {
	LogActivity(ctx context.Context, userEmail, action string) error
}

const DefaultPageSize = 5

type Service struct {
	repo       Repository
	activities ActivityLogger
	log        *zap.Logger
}

func NewService(repo Repository, activities ActivityLogger, log *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		activities: activities,
		log:        log,
	}
}

// ListArticles returns one page of the blog listing, newest first.
func (s *Service) ListArticles(ctx context.Context, query string, page int) (*ArticlePage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * DefaultPageSize

	articles, err := s.repo.ListArticles(ctx, query, DefaultPageSize, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountArticles(ctx, query)
	if err != nil {
		return nil, err
	}

	return &ArticlePage{
		Articles: articles,
		Total:    total,
		Page:     page,
		PageSize: DefaultPageSize,
	}, nil
}

// GetArticle fetches an article, bumps its view counter and logs the read
// for signed-in users.
func (s *Service) GetArticle(ctx context.Context, userEmail, slug string) (*Article, error) {
	article, err := s.repo.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, slug); err != nil {
		s.log.Warn("increment article views", zap.String("slug", slug), zap.Error(err))
	} else {
		article.Views++
	}

	s.logActivity(ctx, userEmail, fmt.Sprintf("Read article: %s", article.Title))

	return article, nil
}

// LikeArticle bumps the like counter; a like counts as a completed module
// for the activity streak.
func (s *Service) LikeArticle(ctx context.Context, userEmail, slug string) (*Article, error) {
	article, err := s.repo.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementLikes(ctx, slug); err != nil {
		return nil, err
	}
	article.Likes++

	s.logActivity(ctx, userEmail, fmt.Sprintf("Completed module: %s", article.Title))

	return article, nil
}

func (s *Service) ListVideos(ctx context.Context, query string) ([]Video, error) {
	return s.repo.ListVideos(ctx, query)
}

func (s *Service) logActivity(ctx context.Context, userEmail, action string) {
	if userEmail == "" {
		return
	}
	if err := s.activities.LogActivity(ctx, userEmail, action); err != nil {
		s.log.Warn("log activity", zap.String("action", action), zap.Error(err))
	}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title the same way the admin tooling
// that creates articles does.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
