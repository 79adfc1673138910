package orderControllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Athah222/Label-Athah/models"
)

// GET /admin/orders/export-excel
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sheet"})
			return
		}

		header := sheet.AddRow()
		for _, title := range []string{
			"Order Ref", "Date", "Customer", "Email", "Items",
			"Subtotal", "Shipping", "Discount", "Total", "Status", "Payment ID",
		} {
			header.AddCell().SetString(title)
		}

		for _, order := range orders {
			itemCount := 0
			for _, item := range order.Items {
				itemCount += item.Quantity
			}

			row := sheet.AddRow()
			row.AddCell().SetString(order.OrderRef)
			row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
			row.AddCell().SetString(order.ShippingAddress.Name)
			row.AddCell().SetString(order.User.Email)
			row.AddCell().SetInt(itemCount)
			row.AddCell().SetFloat(order.Subtotal)
			row.AddCell().SetFloat(order.ShippingCost)
			row.AddCell().SetFloat(order.Discount)
			row.AddCell().SetFloat(order.TotalAmount)
			row.AddCell().SetString(string(order.Status))
			row.AddCell().SetString(order.GatewayPaymentID)
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders-%s.xlsx", time.Now().Format("20060102")))
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write excel file"})
		}
	}
}
