package regexport

import (
	"log"
	"net/http"

	"github.com/residently/registry-backend/internal/db"
	"github.com/residently/registry-backend/internal/registry"
)

// ExportHandler streams the full registry as a CSV download.
func ExportHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := registry.NewStore(db.DB).AllResidentRows()
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="residents.csv"`)
	if _, err := w.Write(Project(rows)); err != nil {
		log.Printf("export: write response: %v", err)
	}
}
