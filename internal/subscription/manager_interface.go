package subscription

import "github.com/VitaminP8/blogery/models"

// Manager fans new comments out to the readers of a post.
type Manager interface {
	Subscribe(postID uint) (<-chan *models.Comment, func())
	Publish(postID uint, comment *models.Comment)
}
