package intent

// Device identifies which adapter an intent targets.
type Device string

const (
	DeviceLight   Device = "light"
	DeviceTV      Device = "tv"
	DeviceVacuum  Device = "vacuum"
	DeviceStatus  Device = "status"
	DeviceUnknown Device = "unknown"
)

// Room constants (canonical names used by the light adapter).
const (
	RoomHallway  = "hallway"
	RoomKitchen  = "kitchen"
	RoomRoom     = "room"
	RoomBathroom = "bathroom"
	RoomToilet   = "toilet"
	RoomAll      = "all"
)

// Rooms lists every physical room the light adapter owns, in a fixed order.
var Rooms = []string{RoomHallway, RoomKitchen, RoomRoom, RoomBathroom, RoomToilet}

// Intent is a normalized command extracted from raw text. It is produced
// once by Parse and consumed once by the dispatcher; callers never mutate it.
//
// Invariant: Device != DeviceUnknown implies Action is non-empty. When a
// device noun matches but no action keyword resolves, Parse collapses the
// result to DeviceUnknown rather than emitting a half-formed intent.
type Intent struct {
	Device Device
	Action string
	Room   string // canonical room name, empty when absent
	Value  *int   // brightness/volume percentage, nil when absent
}

// HasValue reports whether a numeric value was extracted.
func (i Intent) HasValue() bool { return i.Value != nil }
