package model

// TrackLength is the position at which the boat wraps and ownership rotates
const TrackLength = 100

// BoatDirection is the direction the boat travels on the track
type BoatDirection string

const (
	DirectionForward  BoatDirection = "forward"
	DirectionBackward BoatDirection = "backward" // retained for future use
)

// Boat is the shared turn token for a race. Its current owner is the only
// player whose click ends the race.
type Boat struct {
	RaceID    RaceID
	Position  int // 0..TrackLength
	OwnerID   UserID
	Direction BoatDirection
}
