package registry_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/residently/registry-backend/internal/db"
	"github.com/residently/registry-backend/internal/regexport"
	"github.com/residently/registry-backend/internal/regimport"
	"github.com/residently/registry-backend/internal/registry"
)

// setupServer points the package globals at an in-memory database and mounts
// the registry routes the same way main.go does.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	db.DB = setupTestDB(t)
	registry.Init()

	r := chi.NewRouter()
	r.Mount("/registry", registry.SetupRoutes(regimport.ImportHandler, regexport.ExportHandler))

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateHouse_BuildsGrid(t *testing.T) {
	server := setupServer(t)

	resp := postJSON(t, server.URL+"/registry/houses",
		`{"microdistrict":"North-7","house_number":"12","floors_count":3}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var house registry.House
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&house))
	assert.NotZero(t, house.ID)

	var apartments int64
	require.NoError(t, db.DB.Model(&registry.Apartment{}).Where("house_id = ?", house.ID).Count(&apartments).Error)
	assert.EqualValues(t, 18, apartments)
}

// TestCreateHouse_DuplicateRejected covers the guard: the second identical
// creation is refused before any write, so house and apartment counts stay
// put.
func TestCreateHouse_DuplicateRejected(t *testing.T) {
	server := setupServer(t)

	resp := postJSON(t, server.URL+"/registry/houses",
		`{"microdistrict":"North-7","house_number":"12","floors_count":3}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, server.URL+"/registry/houses",
		`{"microdistrict":"North-7","house_number":"12","floors_count":5}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var houses, apartments int64
	require.NoError(t, db.DB.Model(&registry.House{}).Count(&houses).Error)
	require.NoError(t, db.DB.Model(&registry.Apartment{}).Count(&apartments).Error)
	assert.EqualValues(t, 1, houses)
	assert.EqualValues(t, 18, apartments)
}

func TestCreateHouse_Validation(t *testing.T) {
	server := setupServer(t)

	for name, body := range map[string]string{
		"blank microdistrict": `{"microdistrict":"  ","house_number":"12","floors_count":3}`,
		"blank house number":  `{"microdistrict":"North-7","house_number":"","floors_count":3}`,
		"zero floors":         `{"microdistrict":"North-7","house_number":"12","floors_count":0}`,
	} {
		resp := postJSON(t, server.URL+"/registry/houses", body)
		assert.Equalf(t, http.StatusBadRequest, resp.StatusCode, "case %q", name)
	}
}

func TestRegisterAndEvictResident(t *testing.T) {
	server := setupServer(t)

	resp := postJSON(t, server.URL+"/registry/houses",
		`{"microdistrict":"Sunrise","house_number":"5","floors_count":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var house registry.House
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&house))

	var apartment registry.Apartment
	require.NoError(t, db.DB.Where("house_id = ?", house.ID).First(&apartment).Error)

	resp = postJSON(t, server.URL+"/registry/residents", fmt.Sprintf(
		`{"apartment_id":%d,"first_name":"Anna","last_name":"Petrova","phone":"+7 900","move_in_date":"2024-04-05"}`,
		apartment.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var resident registry.Resident
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&resident))

	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/registry/residents/%d", server.URL, resident.ID), nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	var residents int64
	require.NoError(t, db.DB.Model(&registry.Resident{}).Count(&residents).Error)
	assert.EqualValues(t, 0, residents)
}

func TestResidentsHandler_Pagination(t *testing.T) {
	server := setupServer(t)

	resp := postJSON(t, server.URL+"/registry/houses",
		`{"microdistrict":"Sunrise","house_number":"5","floors_count":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var house registry.House
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&house))

	var apartment registry.Apartment
	require.NoError(t, db.DB.Where("house_id = ?", house.ID).First(&apartment).Error)

	for i := 0; i < 7; i++ {
		resp := postJSON(t, server.URL+"/registry/residents", fmt.Sprintf(
			`{"apartment_id":%d,"first_name":"R%d","last_name":"Resident","move_in_date":"2024-01-01"}`,
			apartment.ID, i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	getResp, err := http.Get(server.URL + "/registry/residents?page=1&per_page=5")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var payload struct {
		Residents  []registry.ResidentRow `json:"residents"`
		TotalCount int64                  `json:"total_count"`
	}
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&payload))
	assert.EqualValues(t, 7, payload.TotalCount)
	assert.Len(t, payload.Residents, 2)
}

func TestHousesHandler_PreloadsHierarchy(t *testing.T) {
	server := setupServer(t)

	resp := postJSON(t, server.URL+"/registry/houses",
		`{"microdistrict":"Sunrise","house_number":"5","floors_count":2}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	getResp, err := http.Get(server.URL + "/registry/houses?microdistrict=Sunrise")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var houses []registry.House
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&houses))
	require.Len(t, houses, 1)
	assert.Len(t, houses[0].Apartments, 12)

	// Missing microdistrict param is a client error.
	badResp, err := http.Get(server.URL + "/registry/houses")
	require.NoError(t, err)
	badResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badResp.StatusCode)
}

func TestMicrodistrictsHandler(t *testing.T) {
	server := setupServer(t)

	for _, body := range []string{
		`{"microdistrict":"Sunrise","house_number":"1","floors_count":1}`,
		`{"microdistrict":"Sunrise","house_number":"2","floors_count":1}`,
		`{"microdistrict":"North-7","house_number":"1","floors_count":1}`,
	} {
		resp := postJSON(t, server.URL+"/registry/houses", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := http.Get(server.URL + "/registry/microdistricts")
	require.NoError(t, err)
	defer resp.Body.Close()

	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{"North-7", "Sunrise"}, names)
}
