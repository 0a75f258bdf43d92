package weather

import "sort"

// senegalCities lists the cities served by the platform with their
// coordinates. The set is fixed; requests for any other city fail fast
// without touching the provider.
var senegalCities = map[string]Location{
	"Dakar":       {Name: "Dakar", Lat: 14.6928, Lon: -17.4467},
	"Saint-Louis": {Name: "Saint-Louis", Lat: 16.0199, Lon: -16.4896},
	"Thiès":       {Name: "Thiès", Lat: 14.7886, Lon: -16.9246},
	"Kaolack":     {Name: "Kaolack", Lat: 14.1594, Lon: -16.0736},
	"Ziguinchor":  {Name: "Ziguinchor", Lat: 12.5681, Lon: -16.2719},
	"Diourbel":    {Name: "Diourbel", Lat: 14.6529, Lon: -16.2292},
	"Tambacounda": {Name: "Tambacounda", Lat: 13.7671, Lon: -13.6681},
	"Matam":       {Name: "Matam", Lat: 15.6556, Lon: -13.2553},
	"Podor":       {Name: "Podor", Lat: 16.6514, Lon: -14.9597},
	"Kaffrine":    {Name: "Kaffrine", Lat: 14.1058, Lon: -15.5500},
	"Linguère":    {Name: "Linguère", Lat: 15.3927, Lon: -15.1186},
	"Kolda":       {Name: "Kolda", Lat: 12.8939, Lon: -14.9407},
}

// LookupCity returns the location for a supported city name.
func LookupCity(name string) (Location, bool) {
	loc, ok := senegalCities[name]
	return loc, ok
}

// SupportedCities returns the supported locations sorted by name.
func SupportedCities() []Location {
	cities := make([]Location, 0, len(senegalCities))
	for _, loc := range senegalCities {
		cities = append(cities, loc)
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })
	return cities
}
