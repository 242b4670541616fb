package main

import (
	"github.com/suntzu974/papang/internal/app"
	"github.com/suntzu974/papang/internal/config"

	"github.com/gin-gonic/gin"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)
}
