package handler

import (
	"encoding/json"
	"net/http"

	"codeclub/internal/api/middleware"
	"codeclub/internal/app/service"
	"codeclub/internal/common"

	"github.com/go-chi/chi/v5"
)

type ForumHandler struct {
	forumService *service.ForumService
}

func NewForumHandler(forumService *service.ForumService) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

func (h *ForumHandler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Get("/", h.listPosts)
	r.Get("/{id}", h.getPost)

	r.Group(func(pr chi.Router) {
		pr.Use(authenticator)
		pr.Post("/", h.createPost)
		pr.Patch("/{id}", h.updatePost)
		pr.Delete("/{id}", h.deletePost)
		pr.Post("/{id}/replies", h.createReply)
		pr.Patch("/replies/{id}", h.updateReply)
		pr.Delete("/replies/{id}", h.deleteReply)
		pr.Post("/replies/{id}/upvote", h.upvoteReply)
		pr.Post("/{postId}/best-answer/{replyId}", h.markBestAnswer)
	})
}

func (h *ForumHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.forumService.ListPosts(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, posts)
}

func (h *ForumHandler) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	post, err := h.forumService.GetPost(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *ForumHandler) createPost(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	post, err := h.forumService.CreatePost(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, post)
}

func (h *ForumHandler) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	var req service.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	post, err := h.forumService.UpdatePost(r.Context(), userID, role, id, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *ForumHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	if err := h.forumService.DeletePost(r.Context(), userID, role, id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

func (h *ForumHandler) createReply(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	reply, err := h.forumService.CreateReply(r.Context(), userID, postID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, reply)
}

func (h *ForumHandler) updateReply(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid reply id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	var req service.UpdateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	reply, err := h.forumService.UpdateReply(r.Context(), userID, role, id, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, reply)
}

func (h *ForumHandler) deleteReply(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid reply id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	if err := h.forumService.DeleteReply(r.Context(), userID, role, id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "reply deleted"})
}

func (h *ForumHandler) upvoteReply(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid reply id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	upvotes, err := h.forumService.UpvoteReply(r.Context(), userID, id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"upvotes": upvotes})
}

func (h *ForumHandler) markBestAnswer(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r, "postId")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	replyID, err := idParam(r, "replyId")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid reply id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	reply, err := h.forumService.MarkBestAnswer(r.Context(), userID, role, postID, replyID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, reply)
}
