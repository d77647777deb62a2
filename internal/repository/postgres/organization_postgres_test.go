package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationPostgres_Recipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrganizationPostgres(db)
	ctx := context.Background()

	t.Run("owner first", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users u JOIN organizations o (.+) ORDER BY \\(u.id = o.owner_user_id\\)").
			WithArgs("org-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "email", "created_at"}).
				AddRow("user-1", "org-1", "owner@x.com", time.Now()))

		u, err := repo.Recipient(ctx, "org-1")

		assert.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "owner@x.com", u.Email)
	})

	t.Run("no users", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users u").
			WithArgs("org-2").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.Recipient(ctx, "org-2")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, u)
	})
}

func TestOrganizationPostgres_UsersFor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE organization_id = \\$1 ORDER BY created_at").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "email", "created_at"}).
			AddRow("user-1", "org-1", "a@x.com", time.Now()).
			AddRow("user-2", "org-1", "b@x.com", time.Now()))

	users, err := NewOrganizationPostgres(db).UsersFor(context.Background(), "org-1")

	assert.NoError(t, err)
	assert.Len(t, users, 2)
}
