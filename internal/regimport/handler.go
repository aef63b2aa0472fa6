package regimport

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/residently/registry-backend/internal/db"
	"github.com/residently/registry-backend/internal/registry"
)

// ImportHandler accepts a CSV upload (raw body or multipart "file" part),
// runs the reconciliation and answers with the outcome summary. An aborted
// run answers 500 and still includes the partial summary, since everything
// before the abort is committed.
func ImportHandler(w http.ResponseWriter, r *http.Request) {
	var reader io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Missing file upload", http.StatusBadRequest)
			return
		}
		defer file.Close()
		reader = file
	}

	summary, err := New(registry.NewStore(db.DB)).Run(reader)

	response := struct {
		*Summary
		Error string `json:"error,omitempty"`
	}{Summary: summary}

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		log.Printf("import run %s aborted: %v", summary.RunID, err)
		response.Error = err.Error()
		w.WriteHeader(http.StatusInternalServerError)
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("import run %s: failed to encode response: %v", summary.RunID, err)
	}
}
