// Package player provides a uniform playback surface over
// heterogeneous backing media: an embedded streaming-video player, a
// local audio element, or no media at all.
package player

// State represents the playback state of one player instance. The
// numeric values follow the embedded video player's state codes so
// both backends report through the same model.
type State int

const (
	StateUnstarted State = -1 // Instance created, never played
	StateEnded     State = 0  // Media finished
	StatePlaying   State = 1  // Media playing
	StatePaused    State = 2  // Media paused
	StateError     State = 3  // Unrecoverable playback error
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
