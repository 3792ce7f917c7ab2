// File: cmd/service/main.go
// @title        Account Service API
// @version      1.0
// @description  多使用者帳號服務的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import "log"

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
