// Package gui is the windowed front end. It needs cgo and is only built
// with the raylib tag; without it Run reports ErrUnavailable.
package gui

import "errors"

var ErrUnavailable = errors.New("gui: built without raylib (rebuild with -tags raylib)")

const (
	screenWidth  = 960
	screenHeight = 720
)
