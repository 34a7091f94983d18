package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/workflow"
	"github.com/shopspring/decimal"
)

func getStocks(c *gin.Context) {
	stocks, err := models.GetStocks(c.Request.Context(), queryInt(c, "shop_id"), queryInt(c, "product_id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func getLowStocks(c *gin.Context) {
	threshold := decimal.NewFromInt(10)
	if v := c.Query("threshold"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold"})
			return
		}
		threshold = parsed
	}
	stocks, err := models.GetLowStocks(c.Request.Context(), threshold)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func rebuildStocks(c *gin.Context) {
	if err := workflow.RebuildStocks(c.Request.Context()); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func createStockTransfer(c *gin.Context) {
	var input models.NewStockTransfer
	if !bindJSON(c, &input) {
		return
	}
	transfer, err := workflow.CreateStockTransfer(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func updateStockTransfer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.StockTransferHeader
	if !bindJSON(c, &input) {
		return
	}
	transfer, err := workflow.UpdateStockTransfer(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func deleteStockTransfer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteStockTransfer(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getStockTransfer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	transfer, err := models.GetStockTransfer(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func getStockTransfers(c *gin.Context) {
	transfers, err := models.GetStockTransfers(c.Request.Context(), queryInt(c, "shop_id"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func addStockTransferItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewStockTransferItem
	if !bindJSON(c, &input) {
		return
	}
	item, err := workflow.AddStockTransferItem(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func updateStockTransferItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewStockTransferItem
	if !bindJSON(c, &input) {
		return
	}
	item, err := workflow.UpdateStockTransferItem(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func deleteStockTransferItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteStockTransferItem(c.Request.Context(), id); err != nil {
		abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
