package workout

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/gorilla/mux"
)

type WorkoutHandler struct {
	svc *Service
	log *slog.Logger
}

func NewWorkoutHandler(svc *Service, log *slog.Logger) *WorkoutHandler {
	return &WorkoutHandler{svc: svc, log: log}
}

// RegisterRoutes expects router to already carry the auth middleware.
// Fixed paths are registered before /workouts/{id} so they are not captured
// by it.
func (h *WorkoutHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/workouts", h.CreateWorkout).Methods("POST")
	router.HandleFunc("/workouts", h.ListFeed).Methods("GET")
	router.HandleFunc("/workouts/me", h.ListOwn).Methods("GET")
	router.HandleFunc("/workouts/calendar", h.Calendar).Methods("GET")
	router.HandleFunc("/workouts/exercises", h.ExerciseHistory).Methods("GET")
	router.HandleFunc("/workouts/by-exercise", h.ByExercise).Methods("GET")
	router.HandleFunc("/workouts/{id}", h.GetWorkout).Methods("GET")
	router.HandleFunc("/workouts/{id}", h.UpdateWorkout).Methods("PATCH")
	router.HandleFunc("/workouts/{id}", h.DeleteWorkout).Methods("DELETE")
}

func (h *WorkoutHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "create workout", err)
		return
	}

	var in CreateWorkoutInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.Fail(h.log, w, r, "create workout", err)
		return
	}

	view, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		utils.Fail(h.log, w, r, "create workout", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, view)
}

func (h *WorkoutHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "list feed", err)
		return
	}

	views, err := h.svc.Feed(r.Context(), userID)
	if err != nil {
		utils.Fail(h.log, w, r, "list feed", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views)
}

func (h *WorkoutHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "list own workouts", err)
		return
	}

	views, err := h.svc.ListOwn(r.Context(), userID)
	if err != nil {
		utils.Fail(h.log, w, r, "list own workouts", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views)
}

func (h *WorkoutHandler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "get workout", err)
		return
	}

	view, err := h.svc.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(h.log, w, r, "get workout", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *WorkoutHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "update workout", err)
		return
	}

	var in UpdateWorkoutInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.Fail(h.log, w, r, "update workout", err)
		return
	}

	view, err := h.svc.Update(r.Context(), userID, mux.Vars(r)["id"], in)
	if err != nil {
		utils.Fail(h.log, w, r, "update workout", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *WorkoutHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "delete workout", err)
		return
	}

	if err := h.svc.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		utils.Fail(h.log, w, r, "delete workout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkoutHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "calendar", err)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		utils.Fail(h.log, w, r, "calendar", utils.NewValidationError("year", "must be an integer"))
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		utils.Fail(h.log, w, r, "calendar", utils.NewValidationError("month", "must be an integer"))
		return
	}

	cal, err := h.svc.Calendar(r.Context(), userID, year, month)
	if err != nil {
		utils.Fail(h.log, w, r, "calendar", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cal)
}

func (h *WorkoutHandler) ExerciseHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "exercise history", err)
		return
	}

	summaries, err := h.svc.ExerciseHistory(r.Context(), userID)
	if err != nil {
		utils.Fail(h.log, w, r, "exercise history", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summaries)
}

func (h *WorkoutHandler) ByExercise(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.Fail(h.log, w, r, "workouts by exercise", err)
		return
	}

	views, err := h.svc.ByExercise(r.Context(), userID, r.URL.Query().Get("name"))
	if err != nil {
		utils.Fail(h.log, w, r, "workouts by exercise", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views)
}
