package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msretail/retail_backend/models"
)

// Master data endpoints: plain CRUD over models, no balance propagation.

func createShop(c *gin.Context) {
	var input models.NewShop
	if !bindJSON(c, &input) {
		return
	}
	shop, err := models.CreateShop(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shop)
}

func updateShop(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewShop
	if !bindJSON(c, &input) {
		return
	}
	shop, err := models.UpdateShop(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func deleteShop(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	shop, err := models.DeleteShop(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func getShop(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	shop, err := models.GetShop(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func getShops(c *gin.Context) {
	shops, err := models.GetShops(c.Request.Context())
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, shops)
}

func createCategory(c *gin.Context) {
	var input models.NewCategory
	if !bindJSON(c, &input) {
		return
	}
	category, err := models.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func updateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewCategory
	if !bindJSON(c, &input) {
		return
	}
	category, err := models.UpdateCategory(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func deleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	category, err := models.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func getCategories(c *gin.Context) {
	categories, err := models.GetCategories(c.Request.Context())
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func createProduct(c *gin.Context) {
	var input models.NewProduct
	if !bindJSON(c, &input) {
		return
	}
	product, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func updateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewProduct
	if !bindJSON(c, &input) {
		return
	}
	product, err := models.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func deleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := models.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func getProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func getProducts(c *gin.Context) {
	products, err := models.GetProducts(c.Request.Context(), queryString(c, "name"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func createAccount(c *gin.Context) {
	var input models.NewAccount
	if !bindJSON(c, &input) {
		return
	}
	account, err := models.CreateAccount(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func updateAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewAccount
	if !bindJSON(c, &input) {
		return
	}
	account, err := models.UpdateAccount(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func deleteAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, err := models.DeleteAccount(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func getAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, err := models.GetAccount(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func getAccounts(c *gin.Context) {
	accounts, err := models.GetAccounts(c.Request.Context(), queryString(c, "name"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func createCustomer(c *gin.Context) {
	var input models.NewCustomer
	if !bindJSON(c, &input) {
		return
	}
	customer, err := models.CreateCustomer(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func updateCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewCustomer
	if !bindJSON(c, &input) {
		return
	}
	customer, err := models.UpdateCustomer(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func deleteCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	customer, err := models.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func getCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	customer, err := models.GetCustomer(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func getCustomers(c *gin.Context) {
	customers, err := models.GetCustomers(c.Request.Context(), queryString(c, "name"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func createSupplier(c *gin.Context) {
	var input models.NewSupplier
	if !bindJSON(c, &input) {
		return
	}
	supplier, err := models.CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func updateSupplier(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewSupplier
	if !bindJSON(c, &input) {
		return
	}
	supplier, err := models.UpdateSupplier(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func deleteSupplier(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	supplier, err := models.DeleteSupplier(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func getSupplier(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	supplier, err := models.GetSupplier(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func getSuppliers(c *gin.Context) {
	suppliers, err := models.GetSuppliers(c.Request.Context(), queryString(c, "name"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func createExpense(c *gin.Context) {
	var input models.NewExpense
	if !bindJSON(c, &input) {
		return
	}
	expense, err := models.CreateExpense(c.Request.Context(), &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func updateExpense(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewExpense
	if !bindJSON(c, &input) {
		return
	}
	expense, err := models.UpdateExpense(c.Request.Context(), id, &input)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func deleteExpense(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	expense, err := models.DeleteExpense(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func getExpense(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	expense, err := models.GetExpense(c.Request.Context(), id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func getExpenses(c *gin.Context) {
	expenses, err := models.GetExpenses(c.Request.Context())
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}
