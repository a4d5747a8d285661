// Package blog exposes the content operations. Every call takes the caller's
// principal explicitly, and mutating calls pass the authorization gate before
// touching storage.
package blog

import (
	"fmt"
	"strings"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/internal/user"
	"github.com/VitaminP8/blogery/internal/validation"
	"github.com/VitaminP8/blogery/models"
)

const maxCommentLength = 5000

// PostDetail is a post with its discussion, as shown on the post page.
type PostDetail struct {
	Post     *models.Post      `json:"post"`
	Author   *models.User      `json:"author,omitempty"`
	Comments []*models.Comment `json:"comments"`
}

type Service struct {
	posts    post.PostStorage
	comments comment.CommentStorage
	users    user.UserStorage
	manager  subscription.Manager
}

func NewService(posts post.PostStorage, comments comment.CommentStorage, users user.UserStorage, manager subscription.Manager) *Service {
	return &Service{
		posts:    posts,
		comments: comments,
		users:    users,
		manager:  manager,
	}
}

func (s *Service) ListPosts(p auth.Principal) ([]*models.Post, error) {
	return s.posts.GetAllPosts()
}

// GetPost fails with apperror.NotFound for unknown ids.
func (s *Service) GetPost(p auth.Principal, id uint) (*models.Post, error) {
	return s.posts.GetPostByID(id)
}

// GetPostDetail loads a post, its author and its comments.
func (s *Service) GetPostDetail(p auth.Principal, id uint) (*PostDetail, error) {
	found, err := s.posts.GetPostByID(id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.GetComments(id)
	if err != nil {
		return nil, fmt.Errorf("loading comments of post %d: %w", id, err)
	}

	detail := &PostDetail{Post: found, Comments: comments}
	// a missing author only hides the byline
	if author, err := s.users.GetUserByID(found.AuthorID); err == nil {
		detail.Author = author
	}

	return detail, nil
}

func (s *Service) CreatePost(p auth.Principal, fields post.Fields) (*models.Post, error) {
	if err := auth.Authorize(p, auth.RolePrivileged); err != nil {
		return nil, err
	}
	if err := validation.Struct(fields); err != nil {
		return nil, err
	}

	return s.posts.CreatePost(fields, p.User.ID)
}

func (s *Service) UpdatePost(p auth.Principal, id uint, fields post.Fields) (*models.Post, error) {
	if err := auth.Authorize(p, auth.RolePrivileged); err != nil {
		return nil, err
	}
	if err := validation.Struct(fields); err != nil {
		return nil, err
	}

	return s.posts.UpdatePost(id, fields)
}

// DeletePost removes the post together with its comments.
func (s *Service) DeletePost(p auth.Principal, id uint) error {
	if err := auth.Authorize(p, auth.RolePrivileged); err != nil {
		return err
	}

	return s.posts.DeletePostByID(id)
}

// AddComment needs any logged-in principal, who becomes the comment's author.
func (s *Service) AddComment(p auth.Principal, postID uint, text string) (*models.Comment, error) {
	if err := auth.Authorize(p, auth.RoleAuthenticated); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if err := validation.Var("text", text, fmt.Sprintf("required,max=%d", maxCommentLength)); err != nil {
		return nil, err
	}

	c, err := s.comments.CreateComment(postID, p.User.ID, text)
	if err != nil {
		return nil, err
	}

	if s.manager != nil {
		s.manager.Publish(postID, c)
	}

	return c, nil
}

func (s *Service) ListComments(p auth.Principal, postID uint) ([]*models.Comment, error) {
	return s.comments.GetComments(postID)
}
