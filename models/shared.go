package models

// GeoPoint is a GeoJSON point: coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Region scopes an entity to a state plus the cities it covers within it.
// An empty Cities set on a requirement means "anywhere in the state".
type Region struct {
	State  string   `bson:"state" json:"state"`
	Cities []string `bson:"cities,omitempty" json:"cities,omitempty"`
}

// CitiesIntersect reports whether the two regions share at least one city.
func (r Region) CitiesIntersect(other Region) bool {
	for _, a := range r.Cities {
		for _, b := range other.Cities {
			if a == b {
				return true
			}
		}
	}
	return false
}
