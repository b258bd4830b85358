package frame

import "image"

// Layout places the face elements on a panel of a given size.
type Layout struct {
	Name string
	Size image.Point

	TitleBaseline int
	CountdownTop  int
	Scale         int // countdown magnification of the 7x13 font
	MarkerTop     int
	MarkerHeight  int
	ClockBaseline int
}

// Pebble is the 144x168 watch screen.
var Pebble = Layout{
	Name:          "pebble",
	Size:          image.Pt(144, 168),
	TitleBaseline: 20,
	CountdownTop:  60,
	Scale:         2,
	MarkerTop:     95,
	MarkerHeight:  4,
	ClockBaseline: 140,
}

// OLED is a 128x64 SSD1306 module.
var OLED = Layout{
	Name:          "oled",
	Size:          image.Pt(128, 64),
	TitleBaseline: 11,
	CountdownTop:  14,
	Scale:         2,
	MarkerTop:     42,
	MarkerHeight:  2,
	ClockBaseline: 61,
}

// Bounds returns the panel rectangle.
func (l Layout) Bounds() image.Rectangle {
	return image.Rectangle{Max: l.Size}
}
