package txctx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestResolve_FallsBackWhenNotGORMContext(t *testing.T) {
	fallback := &gorm.DB{}
	inTx := &gorm.DB{}

	assert.Same(t, fallback, Resolve(nil, fallback))
	assert.Same(t, fallback, Resolve(struct{}{}, fallback))
	assert.Same(t, inTx, Resolve(New(inTx), fallback))
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"sqlite", errors.New("UNIQUE constraint failed: participants.email"), true},
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "participants_pkey" (SQLSTATE 23505)`), true},
		{"mysql", errors.New("Error 1062 (23000): Duplicate entry 'a@b.org' for key 'email'"), true},
		{"other", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueConstraintError(tt.err))
		})
	}
}
