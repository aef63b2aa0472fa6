package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/residently/registry-backend/internal/db"
	"github.com/residently/registry-backend/internal/middleware"
	"github.com/residently/registry-backend/internal/regexport"
	"github.com/residently/registry-backend/internal/regimport"
	"github.com/residently/registry-backend/internal/registry"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	registry.Init()
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/registry", registry.SetupRoutes(regimport.ImportHandler, regexport.ExportHandler))

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
