package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/gathorapp/outings-api/cmd/app"
)

// @title           Outings API
// @version         1.0
// @description     Social outing platform backend. Users organize capacity-bounded outings, others request to join, organizers approve or reject, and premium organizers earn business rewards.
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
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
