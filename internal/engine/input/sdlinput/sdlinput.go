// Package sdlinput polls SDL2 and converts its events into input.Events.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/n3mesh-editor/internal/engine/input"
)

// Poller handles all SDL event processing.
type Poller struct {
	events []input.Event
}

// New creates a new poller.
func New() *Poller {
	return &Poller{
		events: make([]input.Event, 0, 16),
	}
}

// Update drains the SDL queue. Returns true if the user asked to quit.
func (p *Poller) Update() bool {
	p.events = p.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			p.events = append(p.events, input.Event{Type: input.EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				p.events = append(p.events, input.Event{
					Type:   input.EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			ev := input.Event{
				Key:    translateKey(e.Keysym.Scancode),
				Mod:    translateMod(sdl.GetModState()),
				Repeat: e.Repeat != 0,
			}
			if ev.Key == input.KeyUnknown {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				ev.Type = input.EventKeyDown
			} else {
				ev.Type = input.EventKeyUp
			}
			p.events = append(p.events, ev)

		case *sdl.MouseMotionEvent:
			p.events = append(p.events, input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := input.Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: input.Button(e.Button),
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = input.EventMouseDown
			} else {
				ev.Type = input.EventMouseUp
			}
			p.events = append(p.events, ev)

		case *sdl.MouseWheelEvent:
			wheel := int(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				wheel = -wheel
			}
			p.events = append(p.events, input.Event{Type: input.EventMouseWheel, Wheel: wheel})

		case *sdl.DropEvent:
			if e.Type == sdl.DROPFILE {
				p.events = append(p.events, input.Event{Type: input.EventDropFile, Path: e.File})
			}
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (p *Poller) Events() []input.Event {
	return p.events
}

func translateKey(sc sdl.Scancode) input.Key {
	switch sc {
	case sdl.SCANCODE_W:
		return input.KeyW
	case sdl.SCANCODE_R:
		return input.KeyR
	case sdl.SCANCODE_O:
		return input.KeyO
	case sdl.SCANCODE_S:
		return input.KeyS
	case sdl.SCANCODE_F:
		return input.KeyF
	case sdl.SCANCODE_ESCAPE:
		return input.KeyEscape
	case sdl.SCANCODE_DELETE:
		return input.KeyDelete
	case sdl.SCANCODE_PAGEUP:
		return input.KeyPageUp
	case sdl.SCANCODE_PAGEDOWN:
		return input.KeyPageDown
	default:
		return input.KeyUnknown
	}
}

func translateMod(m sdl.Keymod) input.Mod {
	var mod input.Mod
	if m&sdl.KMOD_CTRL != 0 || m&sdl.KMOD_GUI != 0 {
		mod |= input.ModCtrl
	}
	if m&sdl.KMOD_SHIFT != 0 {
		mod |= input.ModShift
	}
	return mod
}
