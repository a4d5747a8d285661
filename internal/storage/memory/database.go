package memory

import (
	"sync"

	"github.com/VitaminP8/blogery/models"
)

// Database holds posts and comments behind one lock so that a post delete
// and its comment cascade are observed together.
type Database struct {
	mu            sync.RWMutex
	posts         map[uint]*models.Post
	titles        map[string]uint
	comments      map[uint]*models.Comment
	nextPostID    uint
	nextCommentID uint
}

func NewDatabase() *Database {
	return &Database{
		posts:         make(map[uint]*models.Post),
		titles:        make(map[string]uint),
		comments:      make(map[uint]*models.Comment),
		nextPostID:    1,
		nextCommentID: 1,
	}
}
