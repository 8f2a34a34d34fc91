package resources

import "time"

type Article struct {
	ID        int64
	Title     string
	Slug      string
	Summary   string
	Content   string
	ImageURL  *string
	Views     int
	Likes     int
	CreatedAt time.Time
}

type Video struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	VideoURL    string
	CreatedAt   time.Time
}

// ArticlePage is one page of the blog listing.
type ArticlePage struct {
	Articles []Article
	Total    int
	Page     int
	PageSize int
}
