package restapi

import "github.com/gin-gonic/gin"

// RegisterAccountRoutes attaches the hydration endpoints to a router group.
func RegisterAccountRoutes(router *gin.Engine, handler *AccountHandler) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/accounts", handler.ListAccountsHandler)
		v1.GET("/accounts/selected", handler.SelectedAccountHandler)
		v1.GET("/accounts/refresh", handler.RefreshAccountsHandler)
		v1.POST("/accounts/:accountId/balance", handler.HydrateBalanceHandler)
		v1.POST("/accounts/:accountId/fiat", handler.HydrateFiatHandler)
		v1.POST("/transactions/fiat", handler.HydrateTransactionFiatHandler)
	}
}
