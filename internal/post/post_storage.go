package post

import (
	"github.com/VitaminP8/blogery/models"
)

// Fields are the author-editable parts of a post.
type Fields struct {
	Title    string `json:"title" validate:"required,max=250"`
	Subtitle string `json:"subtitle" validate:"required,max=250"`
	Body     string `json:"body" validate:"required"`
	ImgURL   string `json:"img_url" validate:"required,url,max=250"`
}

// PostStorage performs no authorization; callers gate mutations first.
type PostStorage interface {
	// CreatePost stamps the post date; a taken title yields apperror.DuplicateTitle.
	CreatePost(fields Fields, authorID uint) (*models.Post, error)
	GetPostByID(id uint) (*models.Post, error)
	// GetAllPosts returns posts in creation order.
	GetAllPosts() ([]*models.Post, error)
	// UpdatePost keeps the author and date.
	UpdatePost(id uint, fields Fields) (*models.Post, error)
	// DeletePostByID removes the post and its comments atomically.
	DeletePostByID(id uint) error
}
