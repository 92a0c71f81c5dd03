package input

// WheelDelta is the zoom amount of one wheel notch, in the units of the
// classic Windows wheel message.
const WheelDelta = 120

// TargetStep is how far PageUp/PageDown move the camera target.
const TargetStep = 0.5

// Intents is the part of the editor the controller drives.
type Intents interface {
	Resize(width, height int)
	Zoom(delta float32)
	Rotate(dx, dy float32)
	Pan(dx, dy float32)
	SetTargetY(y float32)
	TargetY() float32
	PointerDown(x, y float32) bool
	PointerMove(x, y float32)
	PointerUp()
	ToggleWireframe()
	ResetCamera()
	Release()
}

// Command is a request the host must handle itself.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandOpen   // show an open-file dialog
	CommandSave   // save the active mesh
	CommandLoad   // load Controller.Path
	CommandReload // reload the active mesh
)

// Controller maps events to intents. Left drag moves the mesh, right drag
// orbits, middle drag pans, the wheel zooms.
type Controller struct {
	target Intents

	left, middle, right bool

	// Path is the file for CommandLoad.
	Path string
}

// NewController creates a controller driving target.
func NewController(target Intents) *Controller {
	return &Controller{target: target}
}

// Handle applies one event and returns any host command.
func (c *Controller) Handle(e Event) Command {
	switch e.Type {
	case EventQuit:
		return CommandQuit

	case EventWindowResize:
		c.target.Resize(e.Width, e.Height)

	case EventMouseDown:
		switch e.Button {
		case ButtonLeft:
			c.left = true
			c.target.PointerDown(float32(e.MouseX), float32(e.MouseY))
		case ButtonMiddle:
			c.middle = true
		case ButtonRight:
			c.right = true
		}

	case EventMouseUp:
		switch e.Button {
		case ButtonLeft:
			c.left = false
			c.target.PointerUp()
		case ButtonMiddle:
			c.middle = false
		case ButtonRight:
			c.right = false
		}

	case EventMouseMove:
		if c.left {
			c.target.PointerMove(float32(e.MouseX), float32(e.MouseY))
		}
		if c.right {
			c.target.Rotate(float32(e.RelX), float32(e.RelY))
		}
		if c.middle {
			c.target.Pan(float32(e.RelX), float32(e.RelY))
		}

	case EventMouseWheel:
		if e.Wheel != 0 {
			c.target.Zoom(float32(e.Wheel * WheelDelta))
		}

	case EventDropFile:
		if e.Path != "" {
			c.Path = e.Path
			return CommandLoad
		}

	case EventKeyDown:
		return c.key(e)
	}
	return CommandNone
}

func (c *Controller) key(e Event) Command {
	ctrl := e.Mod&ModCtrl != 0
	switch {
	case e.Key == KeyO && ctrl:
		return CommandOpen
	case e.Key == KeyS && ctrl:
		return CommandSave
	case e.Key == KeyR && ctrl:
		return CommandReload
	case e.Repeat:
		// Toggles ignore auto-repeat; target nudges below do not.
	case e.Key == KeyW:
		c.target.ToggleWireframe()
	case e.Key == KeyR, e.Key == KeyF:
		c.target.ResetCamera()
	case e.Key == KeyDelete:
		c.target.Release()
	case e.Key == KeyEscape:
		return CommandQuit
	}

	switch e.Key {
	case KeyPageUp:
		c.target.SetTargetY(c.target.TargetY() + TargetStep)
	case KeyPageDown:
		c.target.SetTargetY(c.target.TargetY() - TargetStep)
	}
	return CommandNone
}
