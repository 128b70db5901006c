package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the client, account and activity endpoints on rg.
func RegisterRoutes(rg *gin.RouterGroup, clients *ClientHandler, accounts *AccountHandler, activity *ActivityHandler) {
	c := rg.Group("/clients")
	{
		c.POST("", clients.CreateClient)
		c.GET("", clients.ListClients)
		c.GET("/:clientId", clients.GetClient)
		c.PUT("/:clientId", clients.UpdateClient)
		c.DELETE("/:clientId", clients.DeleteClient)

		c.GET("/:clientId/activity", activity.GetActivity)

		c.POST("/:clientId/accounts", accounts.CreateAccount)
		c.GET("/:clientId/accounts", accounts.ListAccounts)
		c.GET("/:clientId/accounts/:accName", accounts.GetAccount)
		c.PATCH("/:clientId/accounts/:accName/:action", accounts.MoveFunds)
		c.DELETE("/:clientId/accounts/:accName", accounts.DeleteAccount)
	}
}
