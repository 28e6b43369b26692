package routes

import (
	"Cywala/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, h *controllers.Handler) {

	//public and role guarded groups live side by side under each prefix
	h.Admin(r)
	h.Doctor(r)
	h.User(r)
	h.Chat(r)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "API Working")
	})
}
