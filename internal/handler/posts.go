package handler

import (
	"net/http"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/post"
)

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPosts(auth.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := h.blog.GetPostDetail(auth.PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var fields post.Fields
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.blog.CreatePost(auth.PrincipalFromContext(r.Context()), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var fields post.Fields
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.blog.UpdatePost(auth.PrincipalFromContext(r.Context()), id, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.blog.DeletePost(auth.PrincipalFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	comments, err := h.blog.ListComments(auth.PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.blog.AddComment(auth.PrincipalFromContext(r.Context()), id, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
