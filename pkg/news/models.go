package news

import "time"

// Topic is a category articles belong to.
type Topic struct {
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ImgURL      *string `json:"img_url"`
}

// User is an author of articles and comments.
type User struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Article is an article row. Body is left empty in listings.
type Article struct {
	ArticleID     int       `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	Body          string    `json:"body,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int64     `json:"comment_count"`
}

// Comment is a comment on an article.
type Comment struct {
	CommentID int       `json:"comment_id"`
	ArticleID int       `json:"article_id"`
	Body      string    `json:"body"`
	Votes     int       `json:"votes"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticlePage is one page of an article listing and the size of the whole
// filtered collection.
type ArticlePage struct {
	Articles   []Article `json:"articles"`
	TotalCount int64     `json:"total_count"`
}
