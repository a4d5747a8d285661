package comment

import (
	"github.com/VitaminP8/blogery/models"
)

type CommentStorage interface {
	// CreateComment fails with apperror.NotFound when the post does not exist.
	CreateComment(postID, authorID uint, text string) (*models.Comment, error)
	// GetComments returns a post's comments oldest first.
	GetComments(postID uint) ([]*models.Comment, error)
}
