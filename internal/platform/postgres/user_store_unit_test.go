package postgres

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPostgresUserStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cost     int
		expected int
	}{
		{name: "valid cost", cost: 12, expected: 12},
		{name: "minimum cost", cost: bcrypt.MinCost, expected: bcrypt.MinCost},
		{name: "zero uses default", cost: 0, expected: bcrypt.DefaultCost},
		{name: "too low uses default", cost: 3, expected: bcrypt.DefaultCost},
		{name: "too high uses default", cost: 32, expected: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewPostgresUserStore(&sql.DB{}, tt.cost)
			assert.Equal(t, tt.expected, s.bcryptCost)

			tx := s.WithTx(&sql.Tx{}).(*PostgresUserStore)
			assert.Equal(t, tt.expected, tx.bcryptCost)
		})
	}
}

func TestStoreConstructorsPanicOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresProgressStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresWorkoutSessionStore(nil, nil) })
}
