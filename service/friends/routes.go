package friends

import (
	"log/slog"
	"net/http"

	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/gorilla/mux"
)

type FriendHandler struct {
	svc *Service
	log *slog.Logger
}

func NewFriendHandler(svc *Service, log *slog.Logger) *FriendHandler {
	return &FriendHandler{svc: svc, log: log}
}

func (h *FriendHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/friends", h.GetFriends).Methods("GET")
}

func (h *FriendHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "list friends", err)
		return
	}

	friends, err := h.svc.List(r.Context(), userID)
	if err != nil {
		utils.Fail(h.log, w, r, "list friends", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, friends)
}
