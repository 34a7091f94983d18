package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/workflow"
)

// Cash ledger endpoints: withdrawals, transfers, payments, receipts. All
// mutations go through the workflow package so balances move with them.

func createWithdraw(c *gin.Context) {
	var input models.NewWithdraw
	if !bindJSON(c, &input) {
		return
	}
	withdraw, err := workflow.CreateWithdraw(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, withdraw)
}

func updateWithdraw(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewWithdraw
	if !bindJSON(c, &input) {
		return
	}
	withdraw, err := workflow.UpdateWithdraw(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdraw)
}

func deleteWithdraw(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteWithdraw(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getWithdraw(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	withdraw, err := models.GetWithdraw(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdraw)
}

func getWithdraws(c *gin.Context) {
	withdraws, err := models.GetWithdraws(c.Request.Context(), queryInt(c, "account_id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdraws)
}

func createAccountTransfer(c *gin.Context) {
	var input models.NewAccountTransfer
	if !bindJSON(c, &input) {
		return
	}
	transfer, err := workflow.CreateAccountTransfer(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func updateAccountTransfer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewAccountTransfer
	if !bindJSON(c, &input) {
		return
	}
	transfer, err := workflow.UpdateAccountTransfer(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func deleteAccountTransfer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteAccountTransfer(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getAccountTransfer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	transfer, err := models.GetAccountTransfer(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func getAccountTransfers(c *gin.Context) {
	transfers, err := models.GetAccountTransfers(c.Request.Context(), queryInt(c, "account_id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func createPayment(c *gin.Context) {
	var input models.NewPayment
	if !bindJSON(c, &input) {
		return
	}
	payment, err := workflow.CreatePayment(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func updatePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewPayment
	if !bindJSON(c, &input) {
		return
	}
	payment, err := workflow.UpdatePayment(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func deletePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeletePayment(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	payment, err := models.GetPayment(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func getPayments(c *gin.Context) {
	var payableType *models.PayableType
	if v := c.Query("payable_type"); v != "" {
		pt := models.PayableType(v)
		payableType = &pt
	}
	payments, err := models.GetPayments(c.Request.Context(), payableType, queryInt(c, "payable_id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func createReceipt(c *gin.Context) {
	var input models.NewReceipt
	if !bindJSON(c, &input) {
		return
	}
	receipt, err := workflow.CreateReceipt(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func updateReceipt(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewReceipt
	if !bindJSON(c, &input) {
		return
	}
	receipt, err := workflow.UpdateReceipt(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func deleteReceipt(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteReceipt(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getReceipt(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	receipt, err := models.GetReceipt(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func getReceipts(c *gin.Context) {
	receipts, err := models.GetReceipts(c.Request.Context(), queryInt(c, "sales_invoice_id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}
