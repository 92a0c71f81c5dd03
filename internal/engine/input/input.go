// Package input turns window-system events into viewer intents.
//
// Events are backend-neutral; the sdlinput subpackage produces them from
// SDL2. Controller applies them to an Intents implementation.
package input

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventDropFile
)

// Button is a mouse button. Values match SDL's button indices.
type Button uint8

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Key is a keyboard key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyR
	KeyO
	KeyS
	KeyF
	KeyEscape
	KeyDelete
	KeyPageUp
	KeyPageDown
)

// Mod is a keyboard modifier bit set.
type Mod uint8

const (
	ModCtrl Mod = 1 << iota
	ModShift
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Mod    Mod
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Button Button
	Wheel  int    // notches, positive away from the user
	Path   string // dropped file
}
