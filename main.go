package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/minhvt2810/canteen-api/cmd/app"
)

// @title           Canteen Pre-Order API
// @description     Meal pre-ordering for the staff canteen.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
