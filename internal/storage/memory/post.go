package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/models"
)

type PostMemoryStorage struct {
	db *Database
}

func NewPostMemoryStorage(db *Database) *PostMemoryStorage {
	return &PostMemoryStorage{db: db}
}

func (s *PostMemoryStorage) CreatePost(fields post.Fields, authorID uint) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, taken := s.db.titles[fields.Title]; taken {
		return nil, apperror.NewDuplicateTitleError(fields.Title)
	}

	p := &models.Post{
		ID:       s.db.nextPostID,
		Title:    fields.Title,
		Subtitle: fields.Subtitle,
		Date:     time.Now().Format(models.PostDateLayout),
		Body:     fields.Body,
		ImgURL:   fields.ImgURL,
		AuthorID: authorID,
	}
	s.db.nextPostID++

	s.db.posts[p.ID] = p
	s.db.titles[p.Title] = p.ID

	copied := *p
	return &copied, nil
}

func (s *PostMemoryStorage) GetPostByID(id uint) (*models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, exists := s.db.posts[id]
	if !exists {
		return nil, postNotFound(id)
	}

	copied := *p
	return &copied, nil
}

func (s *PostMemoryStorage) GetAllPosts() ([]*models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	posts := make([]*models.Post, 0, len(s.db.posts))
	for _, p := range s.db.posts {
		copied := *p
		posts = append(posts, &copied)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})

	return posts, nil
}

func (s *PostMemoryStorage) UpdatePost(id uint, fields post.Fields) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, exists := s.db.posts[id]
	if !exists {
		return nil, postNotFound(id)
	}

	if owner, taken := s.db.titles[fields.Title]; taken && owner != id {
		return nil, apperror.NewDuplicateTitleError(fields.Title)
	}

	delete(s.db.titles, p.Title)
	p.Title = fields.Title
	p.Subtitle = fields.Subtitle
	p.Body = fields.Body
	p.ImgURL = fields.ImgURL
	s.db.titles[p.Title] = id

	copied := *p
	return &copied, nil
}

func (s *PostMemoryStorage) DeletePostByID(id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, exists := s.db.posts[id]
	if !exists {
		return postNotFound(id)
	}

	for commentID, c := range s.db.comments {
		if c.PostID == id {
			delete(s.db.comments, commentID)
		}
	}
	delete(s.db.titles, p.Title)
	delete(s.db.posts, id)

	return nil
}

func postNotFound(id uint) error {
	return apperror.NewNotFoundError(fmt.Sprintf("post %d not found", id), nil)
}
