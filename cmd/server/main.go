package main

import (
	"log"

	_ "onboardbot/docs"
	"onboardbot/internal/config"
	"onboardbot/internal/server"
)

// @title           Onboarding Assistant API
// @version         1.0
// @description     Event webhook and admin API for the employee onboarding assistant.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
