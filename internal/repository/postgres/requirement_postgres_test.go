package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"complytrack/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requirementCols = []string{"id", "organization_id", "name", "description", "expiration_date", "renewal_frequency", "status", "created_at", "updated_at", "document_count"}

func TestRequirementPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRequirementPostgres(db)
	now := time.Now().UTC()
	exp := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	req := &model.Requirement{
		ID:             "req-1",
		OrganizationID: "org-1",
		Name:           "Fire inspection",
		ExpirationDate: exp,
		Status:         model.StatusMissing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	mock.ExpectQuery("INSERT INTO requirements").
		WithArgs("req-1", "org-1", "Fire inspection", "", exp, "", "missing", now, now).
		WillReturnRows(sqlmock.NewRows(requirementCols).
			AddRow("req-1", "org-1", "Fire inspection", "", exp, "", "missing", now, now, 0))

	got, err := repo.Create(context.Background(), req)

	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusMissing, got.Status)
	assert.Equal(t, 0, got.DocumentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequirementPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRequirementPostgres(db)
	ctx := context.Background()

	t.Run("found with document count", func(t *testing.T) {
		exp := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT (.+) FROM requirements r WHERE r.id = \\$1").
			WithArgs("req-1").
			WillReturnRows(sqlmock.NewRows(requirementCols).
				AddRow("req-1", "org-1", "Permit", "desc", exp, "yearly", "compliant", time.Now(), time.Now(), 2))

		req, err := repo.FindByID(ctx, "req-1")

		assert.NoError(t, err)
		require.NotNil(t, req)
		assert.Equal(t, 2, req.DocumentCount)
		assert.Equal(t, model.StatusCompliant, req.Status)
		assert.Equal(t, exp, req.ExpirationDate)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM requirements r WHERE r.id = \\$1").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		req, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, req)
	})
}

func TestRequirementPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRequirementPostgres(db)
	now := time.Now().UTC()
	req := &model.Requirement{ID: "req-1", Name: "n", ExpirationDate: now, Status: model.StatusExpired, UpdatedAt: now}

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE requirements SET name").
			WithArgs("req-1", "n", "", now, "", "expired", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), req))
	})

	t.Run("no such row", func(t *testing.T) {
		mock.ExpectExec("UPDATE requirements SET name").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), req), sql.ErrNoRows)
	})
}

func TestRequirementPostgres_ListByOrganization(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRequirementPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM requirements r WHERE r.organization_id = \\$1 ORDER BY r.expiration_date").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows(requirementCols).
			AddRow("req-1", "org-1", "A", "", time.Now(), "", "missing", time.Now(), time.Now(), 0).
			AddRow("req-2", "org-1", "B", "", time.Now(), "", "expired", time.Now(), time.Now(), 1))

	reqs, err := repo.ListByOrganization(context.Background(), "org-1")

	assert.NoError(t, err)
	assert.Len(t, reqs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequirementPostgres_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRequirementPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM requirements r ORDER BY r.expiration_date").
		WillReturnRows(sqlmock.NewRows(requirementCols).
			AddRow("req-1", "org-1", "A", "", time.Now(), "", "missing", time.Now(), time.Now(), 0))

	reqs, err := repo.ListAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, reqs, 1)
}

func TestRequirementPostgres_UpdateStatuses(t *testing.T) {
	now := time.Now().UTC()
	reqs := []model.Requirement{
		{ID: "req-1", Status: model.StatusExpired, UpdatedAt: now},
		{ID: "req-2", Status: model.StatusCompliant, UpdatedAt: now},
	}

	t.Run("commits all rows in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE requirements SET status").WithArgs("req-1", "expired", now).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE requirements SET status").WithArgs("req-2", "compliant", now).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, NewRequirementPostgres(db).UpdateStatuses(context.Background(), reqs))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE requirements SET status").WithArgs("req-1", "expired", now).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE requirements SET status").WithArgs("req-2", "compliant", now).WillReturnError(errors.New("deadlock"))
		mock.ExpectRollback()

		err = NewRequirementPostgres(db).UpdateStatuses(context.Background(), reqs)
		assert.ErrorContains(t, err, "update status of req-2")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch skips the transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		assert.NoError(t, NewRequirementPostgres(db).UpdateStatuses(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
