package registry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes wires the registry CRUD endpoints. The CSV import and export
// handlers live in their own packages (which depend on this one), so the
// caller passes them in.
func SetupRoutes(importHandler, exportHandler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()

	r.Get("/microdistricts", MicrodistrictsHandler)
	r.Get("/houses", HousesHandler)
	r.Post("/houses", CreateHouseHandler)
	r.Get("/residents", ResidentsHandler)
	r.Post("/residents", RegisterResidentHandler)
	r.Delete("/residents/{id}", EvictResidentHandler)
	r.Post("/residents/import", importHandler)
	r.Get("/residents/export", exportHandler)

	return r
}
