package routes

import (
	"github.com/gin-gonic/gin"

	"goblog/internal/handlers"
	"goblog/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	verifyHandler *handlers.VerifyHandler,
	articleHandler *handlers.ArticleHandler,
) *gin.Engine {

	// ---- public
	r.GET("/imagecode", verifyHandler.ImageCode)
	r.GET("/smscode", verifyHandler.SmsCode)
	r.POST("/register", userHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.GET("/logout", authHandler.Logout)
	r.POST("/forgetpassword", userHandler.ForgetPassword)

	r.GET("/", articleHandler.Index)
	r.GET("/detail", articleHandler.Detail)
	r.GET("/articles/:id/pdf", articleHandler.ExportPDF)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	center := r.Group("/center")
	{
		center.GET("", userHandler.Center)
		center.POST("", userHandler.UpdateCenter)
	}

	blog := r.Group("/writeblog")
	{
		blog.GET("", articleHandler.WriteBlogForm)
		blog.POST("", articleHandler.CreateArticle)
	}

	r.POST("/comments", articleHandler.CreateComment)

	return r
}
