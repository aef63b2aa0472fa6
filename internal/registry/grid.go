package registry

// UnitsPerFloor is fixed across the whole registry; the original housing
// stock is uniform six-apartment landings.
const UnitsPerFloor = 6

// GenerateGrid enumerates the full apartment set for a freshly created
// house: floors 1..floorsCount, apartment numbers 1..UnitsPerFloor, in
// floor-major order. It is only called right after the house row is created,
// so it never checks for existing apartments.
func GenerateGrid(houseID uint, floorsCount int) []Apartment {
	grid := make([]Apartment, 0, floorsCount*UnitsPerFloor)
	for floor := 1; floor <= floorsCount; floor++ {
		for num := 1; num <= UnitsPerFloor; num++ {
			grid = append(grid, Apartment{
				HouseID:      houseID,
				Floor:        floor,
				ApartmentNum: num,
			})
		}
	}
	return grid
}
