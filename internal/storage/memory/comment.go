package memory

import (
	"sort"

	"github.com/VitaminP8/blogery/models"
)

type CommentMemoryStorage struct {
	db *Database
}

func NewCommentMemoryStorage(db *Database) *CommentMemoryStorage {
	return &CommentMemoryStorage{db: db}
}

func (s *CommentMemoryStorage) CreateComment(postID, authorID uint, text string) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	// checked under the same lock as the insert, a concurrent delete cannot orphan it
	if _, exists := s.db.posts[postID]; !exists {
		return nil, postNotFound(postID)
	}

	c := &models.Comment{
		ID:       s.db.nextCommentID,
		Text:     text,
		AuthorID: authorID,
		PostID:   postID,
	}
	s.db.nextCommentID++
	s.db.comments[c.ID] = c

	copied := *c
	return &copied, nil
}

func (s *CommentMemoryStorage) GetComments(postID uint) ([]*models.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, exists := s.db.posts[postID]; !exists {
		return nil, postNotFound(postID)
	}

	comments := []*models.Comment{}
	for _, c := range s.db.comments {
		if c.PostID == postID {
			copied := *c
			comments = append(comments, &copied)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})

	return comments, nil
}
