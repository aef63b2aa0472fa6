package regimport

import (
	"errors"
	"fmt"

	"github.com/residently/registry-backend/internal/registry"
)

// Gateway is the slice of the store the reconciliation core needs. Lookups
// return registry.ErrNotFound for zero rows and *registry.MultipleMatchError
// when a supposedly unique key matches more than one row; anything else is a
// hard store failure.
type Gateway interface {
	FindHouse(microdistrict, houseNumber string) (*registry.House, error)
	CreateHouse(microdistrict, houseNumber string, floorsCount int) (*registry.House, error)
	FindApartment(houseID uint, apartmentNum int) (*registry.Apartment, error)
	CreateApartment(houseID uint, floor, apartmentNum int) (*registry.Apartment, error)
	InsertResident(apartmentID uint, f registry.ResidentFields) (*registry.Resident, error)
}

// Resolver maps an Intent onto the house→apartment hierarchy, creating
// missing levels on the way down. Creations stick: if a later step of the
// same record fails, the house/apartment rows already written stay live.
type Resolver struct {
	store Gateway
}

// ResolveApartment returns the apartment id for the intent's address,
// creating the house and/or apartment when absent. A house created here gets
// floors_count 0 ("unknown") — one resident row says nothing about how tall
// the building is.
func (r *Resolver) ResolveApartment(in *Intent) (uint, error) {
	house, err := r.store.FindHouse(in.Microdistrict, in.HouseNumber)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		house, err = r.store.CreateHouse(in.Microdistrict, in.HouseNumber, 0)
		if err != nil {
			return 0, fmt.Errorf("create house %q/%q: %w", in.Microdistrict, in.HouseNumber, err)
		}
	case err != nil:
		return 0, fmt.Errorf("look up house %q/%q: %w", in.Microdistrict, in.HouseNumber, err)
	}

	apartment, err := r.store.FindApartment(house.ID, in.ApartmentNum)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		apartment, err = r.store.CreateApartment(house.ID, in.Floor, in.ApartmentNum)
		if err != nil {
			return 0, fmt.Errorf("create apartment %d in house %d: %w", in.ApartmentNum, house.ID, err)
		}
	case err != nil:
		return 0, fmt.Errorf("look up apartment %d in house %d: %w", in.ApartmentNum, house.ID, err)
	}

	return apartment.ID, nil
}
