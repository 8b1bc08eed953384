package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{
			name:  "quit",
			event: &sdl.QuitEvent{Type: sdl.QUIT},
			want:  Event{Type: EventQuit},
			ok:    true,
		},
		{
			name:  "key down",
			event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_S}},
			want:  Event{Type: EventKeyDown, Key: sdl.SCANCODE_S},
			ok:    true,
		},
		{
			name:  "key up",
			event: &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			want:  Event{Type: EventKeyUp, Key: sdl.SCANCODE_W},
			ok:    true,
		},
		{
			name:  "key repeat dropped",
			event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_S}},
			ok:    false,
		},
		{
			name:  "mouse motion",
			event: &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, XRel: 3, YRel: -2},
			want:  Event{Type: EventMouseMove, DeltaX: 3, DeltaY: -2},
			ok:    true,
		},
		{
			name:  "wheel",
			event: &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1},
			want:  Event{Type: EventMouseWheel, DeltaY: -1},
			ok:    true,
		},
		{
			name:  "resize",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
			want:  Event{Type: EventWindowResize},
			ok:    true,
		},
		{
			name:  "window focus ignored",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			if ok != tt.ok {
				t.Fatalf("translate() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("translate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestButtonTracking(t *testing.T) {
	in := New()

	in.push(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT})
	if !in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left button should be held after MOUSEBUTTONDOWN")
	}
	if in.IsButtonDown(sdl.BUTTON_RIGHT) {
		t.Error("right button should not be held")
	}

	in.push(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT})
	if in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left button should be released after MOUSEBUTTONUP")
	}
	if n := len(in.Events()); n != 2 {
		t.Errorf("recorded %d events, want 2", n)
	}
}

func TestPushReportsQuit(t *testing.T) {
	in := New()
	if in.push(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_ESCAPE}}) {
		t.Error("key event reported as quit")
	}
	if !in.push(&sdl.QuitEvent{Type: sdl.QUIT}) {
		t.Error("quit event not reported")
	}
}
