package main

import (
	"github.com/jalexanderII/zero-todo/app"
	"github.com/jalexanderII/zero-todo/config"
)

// @title Zero Todo API
// @version 0.1
// @description Backend API for the Zero to-do lists app.
// @contact.name Joel Alexander
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.LoadENV(); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err = app.SetupAndRunApp(cfg); err != nil {
		panic(err)
	}
}
