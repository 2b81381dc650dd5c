package comments

import (
	"log/slog"
	"net/http"

	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/gorilla/mux"
)

type CommentHandler struct {
	svc *Service
	log *slog.Logger
}

func NewCommentHandler(svc *Service, log *slog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: log}
}

func (h *CommentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/workouts/{id}/comments", h.AddComment).Methods("POST")
	router.HandleFunc("/workouts/{id}/comments", h.GetComments).Methods("GET")
	router.HandleFunc("/workouts/{id}/comments/count", h.CountComments).Methods("GET")
	router.HandleFunc("/comments/{id}", h.DeleteComment).Methods("DELETE")
}

func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "add comment", err)
		return
	}

	var in CreateCommentInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.Fail(h.log, w, r, "add comment", err)
		return
	}

	comment, err := h.svc.Create(r.Context(), userID, mux.Vars(r)["id"], in)
	if err != nil {
		utils.Fail(h.log, w, r, "add comment", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(h.log, w, r, "list comments", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) CountComments(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(h.log, w, r, "count comments", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "delete comment", err)
		return
	}

	if err := h.svc.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		utils.Fail(h.log, w, r, "delete comment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
