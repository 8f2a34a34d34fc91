package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Summary,
		&a.Content,
		&a.ImageURL,
		&a.Views,
		&a.Likes,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) CreateArticle(ctx context.Context, a *Article) (*Article, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO articles (title, slug, summary, content, image_url, views, likes, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, now())
		RETURNING id, title, slug, summary, content, image_url, views, likes, created_at
	`, a.Title, a.Slug, a.Summary, a.Content, a.ImageURL)
	return scanArticle(row)
}

func (r *PgRepository) GetArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, slug, summary, content, image_url, views, likes, created_at
		FROM articles
		WHERE slug = $1
	`, slug)
	return scanArticle(row)
}

func (r *PgRepository) ListArticles(ctx context.Context, query string, limit, offset int) ([]Article, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, slug, summary, content, image_url, views, likes, created_at
		FROM articles
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *PgRepository) CountArticles(ctx context.Context, query string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM articles
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
	`, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

func (r *PgRepository) IncrementViews(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE articles SET views = views + 1 WHERE slug = $1
	`, slug)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *PgRepository) IncrementLikes(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE articles SET likes = likes + 1 WHERE slug = $1
	`, slug)
	if err != nil {
		return fmt.Errorf("increment likes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *PgRepository) CreateVideo(ctx context.Context, v *Video) (*Video, error) {
	out := *v

	err := r.pool.QueryRow(ctx, `
		INSERT INTO videos (title, slug, description, video_url, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, created_at
	`, v.Title, v.Slug, v.Description, v.VideoURL).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) ListVideos(ctx context.Context, query string) ([]Video, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, slug, description, video_url, created_at
		FROM videos
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
	`, query)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Slug, &v.Description, &v.VideoURL, &v.CreatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return videos, nil
}
