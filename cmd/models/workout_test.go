package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkoutPatchZeroValues(t *testing.T) {
	sets, weight, memo := 1, 0.0, ""
	p := WorkoutPatch{Sets: &sets, Weight: &weight, Memo: &memo}

	assert.False(t, p.Empty())
	assert.Equal(t, map[string]interface{}{"sets": 1, "weight": 0.0, "memo": ""}, p.Columns())

	oldWeight, oldMemo := 80.0, "heavy"
	w := Workout{BodyPart: "legs", Sets: 5, Reps: 5, Weight: &oldWeight, Memo: &oldMemo}
	p.Apply(&w)

	assert.Equal(t, "legs", w.BodyPart)
	assert.Equal(t, 1, w.Sets)
	assert.Equal(t, 5, w.Reps)
	assert.Equal(t, 0.0, *w.Weight)
	assert.Equal(t, "", *w.Memo)

	// The patch must not alias the workout.
	weight = 42
	assert.Equal(t, 0.0, *w.Weight)
}

func TestWorkoutPatchEmpty(t *testing.T) {
	assert.True(t, WorkoutPatch{}.Empty())

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	p := WorkoutPatch{WorkoutDate: &date}
	assert.False(t, p.Empty())
	assert.Equal(t, date, p.Columns()["workout_date"])
}

func TestFriendshipOther(t *testing.T) {
	f := Friendship{UserID: "a", FriendID: "b"}
	assert.Equal(t, "b", f.Other("a"))
	assert.Equal(t, "a", f.Other("b"))
}
