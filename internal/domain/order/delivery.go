package order

import "strings"

// DeliveryMode is how the buyer receives the order
type DeliveryMode string

const (
	DeliveryHome  DeliveryMode = "home"
	DeliveryStore DeliveryMode = "store"
)

// IsValid checks if the delivery mode is known
func (m DeliveryMode) IsValid() bool {
	return m == DeliveryHome || m == DeliveryStore
}

// StoreLocation is a pickup store
type StoreLocation struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	ZipCode string `json:"zipCode"`
}

var storeLocations = []StoreLocation{
	{ID: 1, Name: "Downtown", ZipCode: "10001"},
	{ID: 2, Name: "Uptown", ZipCode: "10002"},
	{ID: 3, Name: "Midtown", ZipCode: "10003"},
	{ID: 4, Name: "Greenwich", ZipCode: "10004"},
	{ID: 5, Name: "Brooklyn", ZipCode: "11201"},
	{ID: 6, Name: "Queens", ZipCode: "11301"},
	{ID: 7, Name: "Harlem", ZipCode: "10027"},
	{ID: 8, Name: "Bronx", ZipCode: "10451"},
	{ID: 9, Name: "Staten Island", ZipCode: "10301"},
	{ID: 10, Name: "Jersey City", ZipCode: "07302"},
}

// StoreLocations returns the fixed list of pickup stores
func StoreLocations() []StoreLocation {
	out := make([]StoreLocation, len(storeLocations))
	copy(out, storeLocations)
	return out
}

// LookupStoreLocation finds a pickup store by id
func LookupStoreLocation(id int64) (StoreLocation, bool) {
	for _, s := range storeLocations {
		if s.ID == id {
			return s, true
		}
	}
	return StoreLocation{}, false
}

// Address is a home delivery address
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// missingField returns the name of the first empty field, or ""
func (a Address) missingField() string {
	switch {
	case strings.TrimSpace(a.Street) == "":
		return "street"
	case strings.TrimSpace(a.City) == "":
		return "city"
	case strings.TrimSpace(a.State) == "":
		return "state"
	case strings.TrimSpace(a.Zip) == "":
		return "zip"
	}
	return ""
}
