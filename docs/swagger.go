package docs

import "github.com/swaggo/swag"

// @title           Onboarding Assistant API
// @version         1.0
// @description     Event webhook and admin API for the employee onboarding assistant

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Events
// @tag.description Inbound messaging-platform events

// @tag.name Admin
// @tag.description Operator endpoints: stats, user tasks, ad-hoc scans

// Register swagger info
func SwaggerInfo() *swag.Spec {
	return swag.Instance
}
