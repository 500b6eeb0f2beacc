// Package ui draws the 2D overlay on top of the scene.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Accent         rl.Color // title and button text
	AccentLight    rl.Color // subtitle and hint text
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	TitleFontSize  int32
	PanelRoundness float32
	BarFormat      string // fmt verb for bar values
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 0, G: 12, B: 8, A: 200},
		PanelBorder:    rl.Color{R: 212, G: 175, B: 55, A: 80},
		SectionHeader:  rl.Color{R: 212, G: 175, B: 55, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 30, G: 40, B: 35, A: 255},
		BarFill:        rl.Color{R: 212, G: 175, B: 55, A: 255},
		Accent:         rl.Color{R: 212, G: 175, B: 55, A: 255},
		AccentLight:    rl.Color{R: 252, G: 238, B: 167, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
		TitleFontSize:  40,
		PanelRoundness: 0.08,
		BarFormat:      "%.2f",
	}
}

// fade scales a color's alpha by a in [0, 1].
func fade(c rl.Color, a float32) rl.Color {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c.A = uint8(float32(c.A) * a)
	return c
}
