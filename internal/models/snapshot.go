package models

// UnknownFloorName is reported for access points whose floor ID does not
// resolve in their snapshot.
const UnknownFloorName = "Unknown"

// ProjectMetadata holds the descriptive fields of a survey project.
// Empty strings mean the field was not set.
type ProjectMetadata struct {
	Name              string `json:"name,omitempty"`
	Customer          string `json:"customer,omitempty"`
	Location          string `json:"location,omitempty"`
	ResponsiblePerson string `json:"responsible_person,omitempty"`
}

// Floor is a floor plan within a snapshot
type Floor struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	MetersPerUnit float64 `json:"meters_per_unit"` // Converts raw plan units to meters
	FloorNumber   int     `json:"floor_number"`
}

// Scale returns the floor's meters-per-unit factor and whether it is usable.
func (f *Floor) Scale() (float64, bool) {
	if f == nil || f.MetersPerUnit <= 0 {
		return 0, false
	}
	return f.MetersPerUnit, true
}

// FrequencyBand identifies a radio band such as "2.4GHz" or "5GHz".
type FrequencyBand string

const (
	Band24GHz FrequencyBand = "2.4GHz"
	Band5GHz  FrequencyBand = "5GHz"
	Band6GHz  FrequencyBand = "6GHz"
)

// Radio is a simulated radio on an access point
type Radio struct {
	AccessPointID string        `json:"access_point_id"`
	FrequencyBand FrequencyBand `json:"frequency_band"`
	Channel       int           `json:"channel"`
	ChannelWidth  int           `json:"channel_width"` // MHz
	TxPower       float64       `json:"tx_power"`      // dBm
}

// AccessPoint is a placed access point. Name is human-assigned and is the
// only key shared between two versions of a project.
type AccessPoint struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	FloorID        string            `json:"floor_id"`
	Vendor         string            `json:"vendor,omitempty"`
	Model          string            `json:"model,omitempty"`
	Color          string            `json:"color,omitempty"`
	Enabled        bool              `json:"enabled"`
	MountingHeight float64           `json:"mounting_height"`
	Azimuth        float64           `json:"azimuth"`
	Tilt           float64           `json:"tilt"`
	LocationX      *float64          `json:"location_x,omitempty"`
	LocationY      *float64          `json:"location_y,omitempty"`
	Tags           map[string]string `json:"tags,omitempty"`
	Radios         []*Radio          `json:"radios,omitempty"`
}

// Coords returns the raw floor-plan position of the access point.
func (ap *AccessPoint) Coords() *Point {
	return &Point{X: ap.LocationX, Y: ap.LocationY}
}

// Point is a raw floor-plan position. Either component may be unknown.
type Point struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// XOrZero returns X, treating an unknown component as 0.
func (p *Point) XOrZero() float64 {
	if p == nil || p.X == nil {
		return 0
	}
	return *p.X
}

// YOrZero returns Y, treating an unknown component as 0.
func (p *Point) YOrZero() float64 {
	if p == nil || p.Y == nil {
		return 0
	}
	return *p.Y
}

// Complete reports whether both components are known.
func (p *Point) Complete() bool {
	return p != nil && p.X != nil && p.Y != nil
}

// Snapshot is one parsed version of a survey project. The comparison engine
// only reads snapshots; it never modifies them.
type Snapshot struct {
	Label        string            `json:"label,omitempty"` // Source identifier, e.g. the file name
	Metadata     ProjectMetadata   `json:"metadata"`
	Floors       map[string]*Floor `json:"floors"`
	AccessPoints []*AccessPoint    `json:"access_points"`
}

// ProjectID returns an identifier for the snapshot suitable for reports.
func (s *Snapshot) ProjectID() string {
	if s.Metadata.Name != "" {
		return s.Metadata.Name
	}
	return s.Label
}

// FloorName resolves a floor ID to its display name.
func (s *Snapshot) FloorName(floorID string) string {
	if f, ok := s.Floors[floorID]; ok && f != nil && f.Name != "" {
		return f.Name
	}
	return UnknownFloorName
}

// Float returns a pointer to v. Useful when building coordinates.
func Float(v float64) *float64 {
	return &v
}
