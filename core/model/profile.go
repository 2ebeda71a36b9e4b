package model

// CustomProfile binds a set of vehicles to a restricted, profile-owned
// template set. A vehicle is bound to at most one profile at a time; while
// bound, only templates carrying the profile's id are eligible for it.
type CustomProfile struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	VehicleIDs []string `json:"vehicle_ids" yaml:"vehicle_ids"`
}

// Contains reports whether the vehicle is bound to this profile.
func (p CustomProfile) Contains(vehicleID string) bool {
	for _, id := range p.VehicleIDs {
		if id == vehicleID {
			return true
		}
	}
	return false
}
