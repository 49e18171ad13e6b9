package main

import "goblog/internal/app"

// @title           goblog API
// @version         1.0
// @description     Блог-платформа: регистрация по номеру телефона с графической и SMS-верификацией, статьи, комментарии.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
