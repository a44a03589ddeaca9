package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	mw "splitright/internal/api/middlewares"
	"splitright/internal/api/routers"
	"splitright/internal/repositories/sqlconnect"
	"splitright/pkg/cron"
	"splitright/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	utils.InitLogger()

	if err := sqlconnect.ConnectDb(); err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	if os.Getenv("REMINDER_CRON_ENABLED") == "true" {
		c := cron.StartCronJob(sqlconnect.DB)
		defer c.Stop()
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/users/signup", "/users/login")

	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
	}

	fmt.Println("Server is running on port", port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
