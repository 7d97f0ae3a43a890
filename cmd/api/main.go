package main

import (
	_ "garage_crm/docs"
	"garage_crm/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Garage CRM API
// @version         1.0
// @description     Garage CRM stage funnels with optimistic mutations over the remote store.

// @contact.name   API Support

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
