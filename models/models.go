package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// PostDateLayout is the layout of Post.Date, e.g. "March 04, 2025".
const PostDateLayout = "January 02, 2006"

type User struct {
	ID           uint      `gorm:"primary_key" json:"id"`
	Email        string    `gorm:"type:varchar(100);unique;not null" json:"email"`
	Name         string    `gorm:"type:varchar(100)" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// GravatarHash is the md5 of the normalized email, used to build avatar URLs.
func (u *User) GravatarHash() string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return hex.EncodeToString(sum[:])
}

type Post struct {
	ID       uint   `gorm:"primary_key" json:"id"`
	Title    string `gorm:"type:varchar(250);unique;not null" json:"title"`
	Subtitle string `gorm:"type:varchar(250);not null" json:"subtitle"`
	Date     string `gorm:"type:varchar(250);not null" json:"date"`
	Body     string `gorm:"type:text;not null" json:"body"`
	ImgURL   string `gorm:"type:varchar(250);not null" json:"img_url"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
}

func (Post) TableName() string {
	return "blog_posts"
}

type Comment struct {
	ID       uint   `gorm:"primary_key" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
}

// Session is a server-side login record. The cookie only carries its ID.
type Session struct {
	ID         string    `gorm:"type:varchar(36);primary_key"`
	UserID     uint      `gorm:"not null;index"`
	CreatedAt  time.Time
	LastSeenAt time.Time
}
