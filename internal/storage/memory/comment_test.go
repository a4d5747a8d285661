package memory

import (
	"sync"
	"testing"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentMemoryStorage_CreateComment(t *testing.T) {
	db := NewDatabase()
	posts := NewPostMemoryStorage(db)
	comments := NewCommentMemoryStorage(db)

	p, err := posts.CreatePost(testFields("Commented"), 1)
	require.NoError(t, err)

	t.Run("Successful comment creation", func(t *testing.T) {
		c, err := comments.CreateComment(p.ID, 2, "nice post")
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.Equal(t, p.ID, c.PostID)
		assert.Equal(t, uint(2), c.AuthorID)
		assert.Equal(t, "nice post", c.Text)
	})

	t.Run("Comment on missing post", func(t *testing.T) {
		_, err := comments.CreateComment(999, 2, "into the void")
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestCommentMemoryStorage_GetComments(t *testing.T) {
	db := NewDatabase()
	posts := NewPostMemoryStorage(db)
	comments := NewCommentMemoryStorage(db)

	first, err := posts.CreatePost(testFields("First"), 1)
	require.NoError(t, err)
	second, err := posts.CreatePost(testFields("Second"), 1)
	require.NoError(t, err)

	t.Run("No comments yet", func(t *testing.T) {
		list, err := comments.GetComments(first.ID)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("Only the post's comments, oldest first", func(t *testing.T) {
		for _, text := range []string{"a", "b", "c"} {
			_, err := comments.CreateComment(first.ID, 2, text)
			require.NoError(t, err)
		}
		_, err := comments.CreateComment(second.ID, 2, "elsewhere")
		require.NoError(t, err)

		list, err := comments.GetComments(first.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "a", list[0].Text)
		assert.Equal(t, "b", list[1].Text)
		assert.Equal(t, "c", list[2].Text)
	})

	t.Run("Missing post", func(t *testing.T) {
		_, err := comments.GetComments(999)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestCommentMemoryStorage_ConcurrentWithDelete(t *testing.T) {
	db := NewDatabase()
	posts := NewPostMemoryStorage(db)
	comments := NewCommentMemoryStorage(db)

	p, err := posts.CreatePost(testFields("Racy"), 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := comments.CreateComment(p.ID, 2, "racing")
			if err != nil {
				assert.True(t, apperror.IsNotFound(err))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, posts.DeletePostByID(p.ID))
	}()
	wg.Wait()

	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, c := range db.comments {
		assert.NotEqual(t, p.ID, c.PostID, "comment %d outlived its post", c.ID)
	}
}
