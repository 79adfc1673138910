package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Athah222/Label-Athah/models"
)

func TestRenderTemplateEscapesUserValues(t *testing.T) {
	order := models.Order{
		OrderRef: "20260830120000-abc",
		ShippingAddress: models.Address{
			Name: `<script>alert("x")</script>`,
		},
		Items: []models.OrderItem{
			{ProductName: `Tee <img src=x onerror=alert(1)>`, Size: "M", Price: 999, Quantity: 1},
		},
		TotalAmount: 999,
	}

	for _, tmpl := range []string{confirmationTemplate, adminAlertTemplate, shippingTemplate} {
		html, err := renderTemplate(tmpl, order)
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
		assert.NotContains(t, html, "onerror=")
	}
}

func TestRenderTemplateFormatsAmounts(t *testing.T) {
	order := models.Order{
		OrderRef:        "20260830120000-abc",
		ShippingAddress: models.Address{Name: "Asha Nair"},
		Items: []models.OrderItem{
			{ProductName: "Linen Shirt", Size: "M", Price: 999.50, Quantity: 2},
		},
		TotalAmount: 2049,
	}

	html, err := renderTemplate(confirmationTemplate, order)
	require.NoError(t, err)
	assert.Contains(t, html, "#202608")
	assert.Contains(t, html, "₹1999.00")
	assert.Contains(t, html, "₹2049.00")
}

func TestShortRef(t *testing.T) {
	assert.Equal(t, "202608", shortRef("20260830120000-abc"))
	assert.Equal(t, "AB", shortRef("ab"))
}
