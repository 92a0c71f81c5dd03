package input

import (
	"reflect"
	"testing"
)

type recorder struct {
	calls   []string
	targetY float32
}

func (r *recorder) add(s string) { r.calls = append(r.calls, s) }

func (r *recorder) Resize(w, h int)               { r.add("resize") }
func (r *recorder) Zoom(d float32)                { r.add("zoom") }
func (r *recorder) Rotate(dx, dy float32)         { r.add("rotate") }
func (r *recorder) Pan(dx, dy float32)            { r.add("pan") }
func (r *recorder) SetTargetY(y float32)          { r.targetY = y; r.add("targety") }
func (r *recorder) TargetY() float32              { return r.targetY }
func (r *recorder) PointerDown(x, y float32) bool { r.add("down"); return true }
func (r *recorder) PointerMove(x, y float32)      { r.add("move") }
func (r *recorder) PointerUp()                    { r.add("up") }
func (r *recorder) ToggleWireframe()              { r.add("wireframe") }
func (r *recorder) ResetCamera()                  { r.add("reset") }
func (r *recorder) Release()                      { r.add("release") }

func TestMouseMapping(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   []string
	}{
		{
			name: "left drag",
			events: []Event{
				{Type: EventMouseMove, MouseX: 5},
				{Type: EventMouseDown, Button: ButtonLeft},
				{Type: EventMouseMove, MouseX: 10},
				{Type: EventMouseUp, Button: ButtonLeft},
				{Type: EventMouseMove, MouseX: 20},
			},
			want: []string{"down", "move", "up"},
		},
		{
			name: "right drag rotates",
			events: []Event{
				{Type: EventMouseDown, Button: ButtonRight},
				{Type: EventMouseMove, RelX: 3},
				{Type: EventMouseUp, Button: ButtonRight},
				{Type: EventMouseMove, RelX: 3},
			},
			want: []string{"rotate"},
		},
		{
			name: "middle drag pans",
			events: []Event{
				{Type: EventMouseDown, Button: ButtonMiddle},
				{Type: EventMouseMove, RelY: 3},
				{Type: EventMouseMove, RelY: 3},
				{Type: EventMouseUp, Button: ButtonMiddle},
			},
			want: []string{"pan", "pan"},
		},
		{
			name:   "wheel zooms",
			events: []Event{{Type: EventMouseWheel, Wheel: 1}, {Type: EventMouseWheel}},
			want:   []string{"zoom"},
		},
		{
			name:   "resize",
			events: []Event{{Type: EventWindowResize, Width: 10, Height: 10}},
			want:   []string{"resize"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			c := NewController(r)
			for _, e := range tt.events {
				c.Handle(e)
			}
			if !reflect.DeepEqual(r.calls, tt.want) {
				t.Errorf("calls = %v, want %v", r.calls, tt.want)
			}
		})
	}
}

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		cmd   Command
		want  []string
	}{
		{"wireframe", Event{Type: EventKeyDown, Key: KeyW}, CommandNone, []string{"wireframe"}},
		{"wireframe repeat ignored", Event{Type: EventKeyDown, Key: KeyW, Repeat: true}, CommandNone, nil},
		{"reset", Event{Type: EventKeyDown, Key: KeyR}, CommandNone, []string{"reset"}},
		{"frame", Event{Type: EventKeyDown, Key: KeyF}, CommandNone, []string{"reset"}},
		{"release", Event{Type: EventKeyDown, Key: KeyDelete}, CommandNone, []string{"release"}},
		{"open", Event{Type: EventKeyDown, Key: KeyO, Mod: ModCtrl}, CommandOpen, nil},
		{"plain o", Event{Type: EventKeyDown, Key: KeyO}, CommandNone, nil},
		{"save", Event{Type: EventKeyDown, Key: KeyS, Mod: ModCtrl}, CommandSave, nil},
		{"reload", Event{Type: EventKeyDown, Key: KeyR, Mod: ModCtrl | ModShift}, CommandReload, nil},
		{"escape", Event{Type: EventKeyDown, Key: KeyEscape}, CommandQuit, nil},
		{"key up ignored", Event{Type: EventKeyUp, Key: KeyW}, CommandNone, nil},
		{"quit", Event{Type: EventQuit}, CommandQuit, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			c := NewController(r)
			if got := c.Handle(tt.event); got != tt.cmd {
				t.Errorf("command = %v, want %v", got, tt.cmd)
			}
			if !reflect.DeepEqual(r.calls, tt.want) {
				t.Errorf("calls = %v, want %v", r.calls, tt.want)
			}
		})
	}
}

func TestTargetNudge(t *testing.T) {
	r := &recorder{targetY: 1}
	c := NewController(r)

	c.Handle(Event{Type: EventKeyDown, Key: KeyPageUp})
	c.Handle(Event{Type: EventKeyDown, Key: KeyPageUp, Repeat: true})
	c.Handle(Event{Type: EventKeyDown, Key: KeyPageDown})
	if r.targetY != 1.5 {
		t.Errorf("targetY = %v, want 1.5", r.targetY)
	}
}

func TestDropFile(t *testing.T) {
	c := NewController(&recorder{})
	if got := c.Handle(Event{Type: EventDropFile, Path: "/m/a.n3mesh"}); got != CommandLoad {
		t.Fatalf("command = %v, want load", got)
	}
	if c.Path != "/m/a.n3mesh" {
		t.Errorf("Path = %q", c.Path)
	}
	if got := c.Handle(Event{Type: EventDropFile}); got != CommandNone {
		t.Errorf("empty drop command = %v, want none", got)
	}
}
