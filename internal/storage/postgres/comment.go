package postgres

import (
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

func (s *CommentPostgresStorage) CreateComment(postID, authorID uint, text string) (c *models.Comment, err error) {
	tx := DB.Begin()
	if tx.Error != nil {
		return nil, dbError("could not begin transaction", tx.Error)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// the share lock makes a concurrent post delete wait for this insert
	var p models.Post
	err = withRowLock(tx, "FOR SHARE").First(&p, postID).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, postNotFound(postID)
		}
		return nil, dbError("could not get post", err)
	}

	c = &models.Comment{
		Text:     text,
		AuthorID: authorID,
		PostID:   postID,
	}
	err = tx.Create(c).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, postNotFound(postID)
		}
		return nil, dbError("could not create comment", err)
	}

	err = tx.Commit().Error
	if err != nil {
		return nil, dbError("could not commit comment", err)
	}

	return c, nil
}

func (s *CommentPostgresStorage) GetComments(postID uint) ([]*models.Comment, error) {
	var count int
	err := DB.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error
	if err != nil {
		return nil, dbError("could not get post", err)
	}
	if count == 0 {
		return nil, postNotFound(postID)
	}

	comments := []*models.Comment{}
	err = DB.Where("post_id = ?", postID).Order("id asc").Find(&comments).Error
	if err != nil {
		return nil, dbError("could not get comments", err)
	}

	return comments, nil
}
