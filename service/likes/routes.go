package likes

import (
	"log/slog"
	"net/http"

	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/gorilla/mux"
)

type LikeHandler struct {
	svc *Service
	log *slog.Logger
}

func NewLikeHandler(svc *Service, log *slog.Logger) *LikeHandler {
	return &LikeHandler{svc: svc, log: log}
}

func (h *LikeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/workouts/{id}/likes", h.LikeWorkout).Methods("POST")
	router.HandleFunc("/workouts/{id}/likes", h.UnlikeWorkout).Methods("DELETE")
	router.HandleFunc("/workouts/{id}/likes", h.GetLikes).Methods("GET")
	router.HandleFunc("/workouts/{id}/likes/summary", h.GetSummary).Methods("GET")
}

func (h *LikeHandler) LikeWorkout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "like workout", err)
		return
	}

	like, err := h.svc.Create(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(h.log, w, r, "like workout", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, like)
}

func (h *LikeHandler) UnlikeWorkout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "unlike workout", err)
		return
	}

	if err := h.svc.Remove(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		utils.Fail(h.log, w, r, "unlike workout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LikeHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	likes, err := h.svc.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(h.log, w, r, "list likes", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, likes)
}

func (h *LikeHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "like summary", err)
		return
	}

	sum, err := h.svc.Summary(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(h.log, w, r, "like summary", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sum)
}
