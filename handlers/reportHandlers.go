package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msretail/retail_backend/models"
)

// Summary reports over the derived balances.

func getBalanceSummary(c *gin.Context) {
	ctx := c.Request.Context()

	cash, err := models.TotalAccountBalance(ctx)
	if err != nil {
		abortError(c, err)
		return
	}
	receivable, err := models.TotalReceivable(ctx)
	if err != nil {
		abortError(c, err)
		return
	}
	payable, err := models.TotalPayable(ctx)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cash":       cash,
		"receivable": receivable,
		"payable":    payable,
	})
}

func getSalesInvoiceProfit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := models.GetSalesInvoice(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invoice_id":   invoice.ID,
		"total_amount": invoice.TotalAmount,
		"paid_amount":  invoice.PaidAmount,
		"due_amount":   invoice.DueAmount(),
		"profit":       invoice.Profit(),
	})
}
