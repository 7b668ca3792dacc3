package diet

import (
	"context"
	"testing"

	"Nutrition-Tracker/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockService(t *testing.T) (DietService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewDietService(NewDietRepository(gdb)), mock
}

func TestAssignUserDietStoresDisallowed(t *testing.T) {
	svc, mock := newMockService(t)
	userID, dietID := uuid.New(), uuid.New()
	allowed := false

	mock.ExpectQuery(`SELECT \* FROM "diets" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(dietID.String(), "Keto"))
	mock.ExpectQuery(`SELECT \* FROM "user_diets" WHERE user_id = \$1 AND diet_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "user_diets"`).
		WithArgs(userID.String(), dietID.String(), false, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))

	res, err := svc.AssignUserDiet(context.Background(), domain.AssignUserDietRequest{
		DietID:  dietID.String(),
		Allowed: &allowed,
	}, userID.String())
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, "Keto", res.Diet.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignUserDietTwice(t *testing.T) {
	svc, mock := newMockService(t)
	userID, dietID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "diets" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(dietID.String(), "Vegan"))
	mock.ExpectQuery(`SELECT \* FROM "user_diets" WHERE user_id = \$1 AND diet_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "diet_id", "allowed"}).
			AddRow(uuid.NewString(), userID.String(), dietID.String(), true))

	_, err := svc.AssignUserDiet(context.Background(), domain.AssignUserDietRequest{DietID: dietID.String()}, userID.String())
	assert.ErrorIs(t, err, domain.ErrUserDietExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignUnknownDiet(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "diets" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.AssignUserDiet(context.Background(), domain.AssignUserDietRequest{DietID: uuid.NewString()}, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrDietNotFound)
}

func TestCreateDietRejectsDuplicateName(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "diets" WHERE LOWER\(name\) = LOWER\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(uuid.NewString(), "Keto"))

	_, err := svc.CreateDiet(context.Background(), domain.CreateDietRequest{Name: "keto"})
	assert.ErrorIs(t, err, domain.ErrDietExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMissingUserDiet(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`DELETE FROM "user_diets" WHERE user_id = \$1 AND diet_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.RemoveUserDiet(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserDietNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
