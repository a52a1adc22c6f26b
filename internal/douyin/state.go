package douyin

import "fmt"

// State tracks the one-directional progress of a publish run. Steps only
// advance; a failure parks the run in StateFailed and nothing is rolled back,
// so the operator can inspect or finish the half-filled form by hand.
type State int

const (
	StateStart State = iota
	StateNavigated
	StateAuthenticated
	StateImagesUploaded
	StateVideoUploaded
	StateTitleSet
	StateDescriptionSet
	StateHotspotSet
	StateMusicSet
	StateReadyToSubmit
	StateDebugPause
	StateSubmitted
	StateFailed
)

var stateNames = map[State]string{
	StateStart:          "start",
	StateNavigated:      "navigated",
	StateAuthenticated:  "authenticated",
	StateImagesUploaded: "images_uploaded",
	StateVideoUploaded:  "video_uploaded",
	StateTitleSet:       "title_set",
	StateDescriptionSet: "description_set",
	StateHotspotSet:     "hotspot_set",
	StateMusicSet:       "music_set",
	StateReadyToSubmit:  "ready_to_submit",
	StateDebugPause:     "debug_pause",
	StateSubmitted:      "submitted",
	StateFailed:         "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}
