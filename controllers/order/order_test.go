package orderControllers

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
	return c, w
}

// Order refs are non-numeric strings, so the lookup has to compare the bigint
// id column as text instead of coercing the parameter to an integer.
func TestGetUserOrderByRef(t *testing.T) {
	db, mock := newMockDB(t)
	ref := "20260830120000-9e0dd6a2"

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE user_id = \$1 AND \(id::text = \$2 OR order_ref = \$3\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_ref", "user_id", "status", "total_amount"}).
			AddRow(7, ref, "user-1", "Processing", 4050.0))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

	c, w := testContext(t, http.MethodGet, "/user/orders/"+ref, nil)
	c.Params = gin.Params{{Key: "orderID", Value: ref}}
	c.Set("user_id", "user-1")

	GetUserOrderByID(db)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusByRef(t *testing.T) {
	db, mock := newMockDB(t)
	ref := "20260830120000-9e0dd6a2"

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id::text = \$1 OR order_ref = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_ref", "user_id", "status"}).
			AddRow(7, ref, "user-1", "Processing"))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, w := testContext(t, http.MethodPut, "/admin/orders/"+ref+"/status", []byte(`{"status":"shipped"}`))
	c.Params = gin.Params{{Key: "orderID", Value: ref}}

	UpdateOrderStatus(db, nil, nil, nil)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shipped")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusRejectsInvalidTransition(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_ref", "user_id", "status"}).
			AddRow(7, "ref-1", "user-1", "Processing"))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, w := testContext(t, http.MethodPut, "/admin/orders/7/status", []byte(`{"status":"delivered"}`))
	c.Params = gin.Params{{Key: "orderID", Value: "7"}}

	UpdateOrderStatus(db, nil, nil, nil)(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot move order from Processing to Delivered")
	assert.NoError(t, mock.ExpectationsWereMet())
}
