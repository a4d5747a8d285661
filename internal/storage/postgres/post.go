package postgres

import (
	"fmt"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func (s *PostPostgresStorage) CreatePost(fields post.Fields, authorID uint) (*models.Post, error) {
	p := &models.Post{
		Title:    fields.Title,
		Subtitle: fields.Subtitle,
		Date:     time.Now().Format(models.PostDateLayout),
		Body:     fields.Body,
		ImgURL:   fields.ImgURL,
		AuthorID: authorID,
	}

	err := DB.Create(p).Error
	if err != nil {
		if isUniqueViolation(err, "title") {
			return nil, apperror.NewDuplicateTitleError(fields.Title)
		}
		return nil, dbError("could not create post", err)
	}

	return p, nil
}

func (s *PostPostgresStorage) GetPostByID(id uint) (*models.Post, error) {
	var p models.Post
	err := DB.First(&p, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, postNotFound(id)
		}
		return nil, dbError("could not get post by id", err)
	}

	return &p, nil
}

func (s *PostPostgresStorage) GetAllPosts() ([]*models.Post, error) {
	var posts []*models.Post
	err := DB.Order("id asc").Find(&posts).Error
	if err != nil {
		return nil, dbError("could not get posts", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return posts, nil
}

// UpdatePost rewrites the editable fields of the post while holding its row
// lock, so a concurrent delete either waits or wins with NotFound.
func (s *PostPostgresStorage) UpdatePost(id uint, fields post.Fields) (_ *models.Post, err error) {
	tx := DB.Begin()
	if tx.Error != nil {
		return nil, dbError("could not begin transaction", tx.Error)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var p models.Post
	err = withRowLock(tx, "FOR UPDATE").First(&p, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, postNotFound(id)
		}
		return nil, dbError("could not get post by id", err)
	}

	result := tx.Table(p.TableName()).Where("id = ?", id).Updates(map[string]interface{}{
		"title":    fields.Title,
		"subtitle": fields.Subtitle,
		"body":     fields.Body,
		"img_url":  fields.ImgURL,
	})
	if err = result.Error; err != nil {
		if isUniqueViolation(err, "title") {
			return nil, apperror.NewDuplicateTitleError(fields.Title)
		}
		return nil, dbError("could not update post", err)
	}
	if result.RowsAffected == 0 {
		return nil, postNotFound(id)
	}

	err = tx.Commit().Error
	if err != nil {
		return nil, dbError("could not commit post update", err)
	}

	p.Title = fields.Title
	p.Subtitle = fields.Subtitle
	p.Body = fields.Body
	p.ImgURL = fields.ImgURL

	return &p, nil
}

// DeletePostByID deletes the post's comments and then the post in one transaction.
func (s *PostPostgresStorage) DeletePostByID(id uint) (err error) {
	tx := DB.Begin()
	if tx.Error != nil {
		return dbError("could not begin transaction", tx.Error)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var p models.Post
	err = withRowLock(tx, "FOR UPDATE").First(&p, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return postNotFound(id)
		}
		return dbError("could not get post by id", err)
	}

	err = tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error
	if err != nil {
		return dbError("could not delete comments", err)
	}

	err = tx.Delete(&p).Error
	if err != nil {
		return dbError("could not delete post", err)
	}

	err = tx.Commit().Error
	if err != nil {
		return dbError("could not commit post deletion", err)
	}

	return nil
}

func postNotFound(id uint) error {
	return apperror.NewNotFoundError(fmt.Sprintf("post %d not found", id), nil)
}
