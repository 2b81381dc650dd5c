package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, want: utils.ErrNotFound},
		{name: "translated duplicate", err: gorm.ErrDuplicatedKey, want: utils.ErrConflict},
		{name: "raw unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: utils.ErrConflict},
		{name: "translated foreign key", err: gorm.ErrForeignKeyViolated, want: utils.ErrNotFound},
		{name: "raw foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: utils.ErrNotFound},
		{name: "malformed uuid", err: &pgconn.PgError{Code: "22P02"}, want: utils.ErrValidation},
		{name: "other", err: boom, want: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err, "thing"), tt.want)
		})
	}

	assert.NoError(t, translate(nil, "thing"))
}

func TestUUIDsOnly(t *testing.T) {
	id := "6f1c2b0e-3d4a-4f6b-9a8c-1e2d3c4b5a69"
	assert.Equal(t, []string{id}, uuidsOnly([]string{"alice", id, ""}))
	assert.Empty(t, uuidsOnly(nil))
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, []string{"users", "friendships", "workouts", "likes", "comments"}, TableNames())
}
