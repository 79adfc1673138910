package addressControllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func testContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	c.Set("user_id", "user-1")
	return c, w
}

const addressJSON = `{
	"name": "Asha Nair",
	"street": "14 MG Road",
	"city": "Kochi",
	"state": "Kerala",
	"zip": "682001",
	"country": "India"
}`

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "shipping_addresses" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "shipping_addresses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	c, w := testContext(t, http.MethodPost, "/user/addresses", []byte(addressJSON))
	CreateAddress(db)(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"is_default":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDefaultAddressUnsetsPreviousFirst(t *testing.T) {
	db, mock := newMockDB(t)

	body := []byte(`{
		"name": "Asha Nair", "street": "14 MG Road", "city": "Kochi",
		"state": "Kerala", "zip": "682001", "country": "India",
		"is_default": true
	}`)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "shipping_addresses" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE "shipping_addresses" SET .* WHERE user_id = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "shipping_addresses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	c, w := testContext(t, http.MethodPost, "/user/addresses", body)
	CreateAddress(db)(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"is_default":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Switching the default clears the old one and marks the new one inside a
// single transaction, in that order, so there is never a moment with zero or
// two defaults committed.
func TestSetDefaultAddressUnsetsThenSetsInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "shipping_addresses" WHERE user_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_default"}).
			AddRow(2, "user-1", false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "shipping_addresses" SET .* WHERE user_id = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "shipping_addresses" SET .* WHERE "id" = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, w := testContext(t, http.MethodPut, "/user/addresses/2/default", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	SetDefaultAddress(db)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_default":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDefaultAddressPromotesAnother(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "shipping_addresses" WHERE user_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_default"}).
			AddRow(1, "user-1", true))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "shipping_addresses"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "shipping_addresses" WHERE user_id = \$1 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_default"}).
			AddRow(2, "user-1", false))
	mock.ExpectExec(`UPDATE "shipping_addresses" SET .* WHERE "id" = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, w := testContext(t, http.MethodDelete, "/user/addresses/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	DeleteAddress(db)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNonDefaultAddressPromotesNothing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "shipping_addresses" WHERE user_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_default"}).
			AddRow(3, "user-1", false))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "shipping_addresses"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, w := testContext(t, http.MethodDelete, "/user/addresses/3", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	DeleteAddress(db)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
