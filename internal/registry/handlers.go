package registry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func MicrodistrictsHandler(w http.ResponseWriter, r *http.Request) {
	names, err := store.Microdistricts()
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(names); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func HousesHandler(w http.ResponseWriter, r *http.Request) {
	microdistrict := r.URL.Query().Get("microdistrict")
	if microdistrict == "" {
		http.Error(w, "microdistrict is required", http.StatusBadRequest)
		return
	}

	houses, err := store.HousesByMicrodistrict(microdistrict)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(houses); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// CreateHouseHandler is the manual workflow: validate, reject duplicates
// before any write, then create the house and its full apartment grid.
// Unlike import, it never merges into an existing house.
func CreateHouseHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Microdistrict string `json:"microdistrict"`
		HouseNumber   string `json:"house_number"`
		FloorsCount   int    `json:"floors_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input.Microdistrict = strings.TrimSpace(input.Microdistrict)
	input.HouseNumber = strings.TrimSpace(input.HouseNumber)
	if input.Microdistrict == "" || input.HouseNumber == "" {
		http.Error(w, "microdistrict and house_number are required", http.StatusBadRequest)
		return
	}
	if input.FloorsCount <= 0 {
		http.Error(w, "floors_count must be greater than 0", http.StatusBadRequest)
		return
	}

	_, err := store.FindHouse(input.Microdistrict, input.HouseNumber)
	if err == nil {
		http.Error(w, ErrHouseExists.Error(), http.StatusConflict)
		return
	}
	if !errors.Is(err, ErrNotFound) {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	house, err := store.CreateHouse(input.Microdistrict, input.HouseNumber, input.FloorsCount)
	if err != nil {
		http.Error(w, "Failed to create house: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := store.CreateApartments(GenerateGrid(house.ID, house.FloorsCount)); err != nil {
		http.Error(w, "Failed to create apartments: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(house); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RegisterResidentHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ApartmentID uint   `json:"apartment_id"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Phone       string `json:"phone"`
		MoveInDate  string `json:"move_in_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if input.ApartmentID == 0 || strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" {
		http.Error(w, "apartment_id, first_name and last_name are required", http.StatusBadRequest)
		return
	}

	moveIn, err := time.Parse("2006-01-02", input.MoveInDate)
	if err != nil {
		http.Error(w, "move_in_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	resident, err := store.InsertResident(input.ApartmentID, ResidentFields{
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Phone:      strings.TrimSpace(input.Phone),
		MoveInDate: moveIn,
	})
	if err != nil {
		http.Error(w, "Failed to register resident: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resident); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func EvictResidentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid resident id", http.StatusBadRequest)
		return
	}

	if err := store.DeleteResident(uint(id)); err != nil {
		http.Error(w, "Failed to delete resident: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResidentsHandler serves the registry table: joined rows, case-insensitive
// search over name and phone, page/per_page pagination (per_page=-1 = all).
func ResidentsHandler(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 {
			http.Error(w, "Invalid page", http.StatusBadRequest)
			return
		}
		page = p
	}

	perPage := 5
	if v := r.URL.Query().Get("per_page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid per_page", http.StatusBadRequest)
			return
		}
		perPage = p
	}

	offset := 0
	if perPage > 0 {
		offset = page * perPage
	}

	rows, total, err := store.ListResidents(search, offset, perPage)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []ResidentRow{}
	}

	response := struct {
		Residents  []ResidentRow `json:"residents"`
		TotalCount int64         `json:"total_count"`
	}{rows, total}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
