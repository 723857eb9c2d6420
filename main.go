package main

import "smsauth/internal/app"

// @title        SMS Auth API
// @version      1.0
// @description  Регистрация и вход по номеру телефона с подтверждением кодом из SMS
// @BasePath     /
func main() {
	app.Run()
}
