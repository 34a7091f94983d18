package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/workflow"
)

// Invoice endpoints. Header edits and line edits are separate operations so
// the propagation layer sees exactly one kind of change at a time.

func createPurchaseInvoice(c *gin.Context) {
	var input models.NewPurchaseInvoice
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := workflow.CreatePurchaseInvoice(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func updatePurchaseInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.PurchaseInvoiceHeader
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := workflow.UpdatePurchaseInvoice(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func deletePurchaseInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeletePurchaseInvoice(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getPurchaseInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := models.GetPurchaseInvoice(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func getPurchaseInvoices(c *gin.Context) {
	invoices, err := models.GetPurchaseInvoices(c.Request.Context(), queryInt(c, "supplier_id"), queryInt(c, "shop_id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func addPurchaseInvoiceItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewPurchaseInvoiceItem
	if !bindJSON(c, &input) {
		return
	}
	item, err := workflow.AddPurchaseInvoiceItem(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func updatePurchaseInvoiceItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewPurchaseInvoiceItem
	if !bindJSON(c, &input) {
		return
	}
	item, err := workflow.UpdatePurchaseInvoiceItem(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func deletePurchaseInvoiceItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeletePurchaseInvoiceItem(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func createSalesInvoice(c *gin.Context) {
	var input models.NewSalesInvoice
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := workflow.CreateSalesInvoice(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func updateSalesInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.SalesInvoiceHeader
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := workflow.UpdateSalesInvoice(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func deleteSalesInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteSalesInvoice(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getSalesInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := models.GetSalesInvoice(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func getSalesInvoices(c *gin.Context) {
	invoices, err := models.GetSalesInvoices(c.Request.Context(), queryInt(c, "customer_id"), queryInt(c, "shop_id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func addSalesInvoiceItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewSalesInvoiceItem
	if !bindJSON(c, &input) {
		return
	}
	item, err := workflow.AddSalesInvoiceItem(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func updateSalesInvoiceItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewSalesInvoiceItem
	if !bindJSON(c, &input) {
		return
	}
	item, err := workflow.UpdateSalesInvoiceItem(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func deleteSalesInvoiceItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteSalesInvoiceItem(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
