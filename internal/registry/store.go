package registry

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Store is the gateway to the registry tables. Every lookup distinguishes
// "no rows" (ErrNotFound) from a real store failure, and single-row lookups
// fetch up to two rows so a violated uniqueness invariant surfaces as
// MultipleMatchError instead of silently picking the first match.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindHouse(microdistrict, houseNumber string) (*House, error) {
	var houses []House
	err := s.db.Where("microdistrict = ? AND house_number = ?", microdistrict, houseNumber).
		Limit(2).Find(&houses).Error
	if err != nil {
		return nil, fmt.Errorf("find house: %w", err)
	}
	switch len(houses) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &houses[0], nil
	default:
		return nil, &MultipleMatchError{
			Entity: "house",
			Key:    fmt.Sprintf("(%q, %q)", microdistrict, houseNumber),
		}
	}
}

// CreateHouse inserts a house. floorsCount 0 means "unknown": the import
// path can't learn a building's total floor count from a single resident
// row, so houses it creates carry 0 until an operator fixes them up. The
// manual workflow always passes a positive count.
func (s *Store) CreateHouse(microdistrict, houseNumber string, floorsCount int) (*House, error) {
	house := House{
		Microdistrict: microdistrict,
		HouseNumber:   houseNumber,
		FloorsCount:   floorsCount,
	}
	if err := s.db.Create(&house).Error; err != nil {
		return nil, fmt.Errorf("create house: %w", err)
	}
	return &house, nil
}

func (s *Store) FindApartment(houseID uint, apartmentNum int) (*Apartment, error) {
	var apartments []Apartment
	err := s.db.Where("house_id = ? AND apartment_num = ?", houseID, apartmentNum).
		Limit(2).Find(&apartments).Error
	if err != nil {
		return nil, fmt.Errorf("find apartment: %w", err)
	}
	switch len(apartments) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &apartments[0], nil
	default:
		return nil, &MultipleMatchError{
			Entity: "apartment",
			Key:    fmt.Sprintf("(house %d, num %d)", houseID, apartmentNum),
		}
	}
}

func (s *Store) CreateApartment(houseID uint, floor, apartmentNum int) (*Apartment, error) {
	apartment := Apartment{
		HouseID:      houseID,
		Floor:        floor,
		ApartmentNum: apartmentNum,
	}
	if err := s.db.Create(&apartment).Error; err != nil {
		return nil, fmt.Errorf("create apartment: %w", err)
	}
	return &apartment, nil
}

// CreateApartments bulk-inserts a freshly generated grid.
func (s *Store) CreateApartments(apartments []Apartment) error {
	if len(apartments) == 0 {
		return nil
	}
	if err := s.db.Create(&apartments).Error; err != nil {
		return fmt.Errorf("create apartments: %w", err)
	}
	return nil
}

func (s *Store) InsertResident(apartmentID uint, f ResidentFields) (*Resident, error) {
	resident := Resident{
		ApartmentID: apartmentID,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Phone:       f.Phone,
		MoveInDate:  f.MoveInDate,
	}
	if err := s.db.Create(&resident).Error; err != nil {
		return nil, fmt.Errorf("insert resident: %w", err)
	}
	return &resident, nil
}

func (s *Store) DeleteResident(id uint) error {
	if err := s.db.Delete(&Resident{}, id).Error; err != nil {
		return fmt.Errorf("delete resident: %w", err)
	}
	return nil
}

// HousesByMicrodistrict returns the houses of one microdistrict with their
// apartments and residents preloaded, for the accordion view.
func (s *Store) HousesByMicrodistrict(microdistrict string) ([]House, error) {
	var houses []House
	err := s.db.Preload("Apartments", func(db *gorm.DB) *gorm.DB {
		return db.Order("apartments.floor, apartments.apartment_num")
	}).Preload("Apartments.Residents").
		Where("microdistrict = ?", microdistrict).
		Order("house_number").
		Find(&houses).Error
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	return houses, nil
}

// Microdistricts returns the distinct microdistrict names, sorted.
func (s *Store) Microdistricts() ([]string, error) {
	var names []string
	err := s.db.Model(&House{}).Distinct().
		Order("microdistrict").Pluck("microdistrict", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list microdistricts: %w", err)
	}
	return names, nil
}

func (s *Store) residentQuery(search string) *gorm.DB {
	q := s.db.Table("residents").
		Select(`residents.id, residents.first_name, residents.last_name, residents.phone,
			residents.move_in_date,
			houses.microdistrict, houses.house_number,
			apartments.apartment_num, apartments.floor`).
		Joins("LEFT JOIN apartments ON apartments.id = residents.apartment_id").
		Joins("LEFT JOIN houses ON houses.id = apartments.house_id")
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(`LOWER(residents.last_name) LIKE ? OR LOWER(residents.first_name) LIKE ?
			OR residents.phone LIKE ?`, pattern, pattern, pattern)
	}
	return q
}

// ListResidents returns one page of the joined resident rows plus the total
// count for the same search. limit < 0 disables pagination ("all" in the
// table footer).
func (s *Store) ListResidents(search string, offset, limit int) ([]ResidentRow, int64, error) {
	var total int64
	if err := s.residentQuery(search).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count residents: %w", err)
	}

	q := s.residentQuery(search).Order("residents.id")
	if limit >= 0 {
		q = q.Offset(offset).Limit(limit)
	}

	var rows []ResidentRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list residents: %w", err)
	}
	return rows, total, nil
}

// AllResidentRows feeds the CSV export with the unpaginated join.
func (s *Store) AllResidentRows() ([]ResidentRow, error) {
	var rows []ResidentRow
	if err := s.residentQuery("").Order("residents.id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("export residents: %w", err)
	}
	return rows, nil
}
