package gioui

import (
	"image/color"

	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

var black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
var transparent = color.NRGBA{A: 0}

var primaryColor = color.NRGBA{R: 206, G: 147, B: 216, A: 255}
var secondaryColor = color.NRGBA{R: 128, G: 222, B: 234, A: 255}

var highEmphasisTextColor = color.NRGBA{R: 222, G: 222, B: 222, A: 222}
var mediumEmphasisTextColor = color.NRGBA{R: 153, G: 153, B: 153, A: 153}

var backgroundColor = color.NRGBA{R: 18, G: 18, B: 18, A: 255}
var surfaceColor = color.NRGBA{R: 37, G: 37, B: 38, A: 255}

var tooltipColor = color.NRGBA{R: 50, G: 50, B: 51, A: 255}

var resetIcon = mustIcon(icons.ActionRestore)

// Theme is the styling of one editor window. Shapers are not safe for
// concurrent use, so every window gets its own.
type Theme struct {
	Material *material.Theme
	Surface  color.NRGBA
	Value    color.NRGBA
	Caption  color.NRGBA
	Tooltip  color.NRGBA
}

func NewTheme() *Theme {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	th.Palette = material.Palette{
		Bg:         backgroundColor,
		Fg:         highEmphasisTextColor,
		ContrastBg: primaryColor,
		ContrastFg: black,
	}
	return &Theme{
		Material: th,
		Surface:  surfaceColor,
		Value:    secondaryColor,
		Caption:  mediumEmphasisTextColor,
		Tooltip:  tooltipColor,
	}
}

func mustIcon(data []byte) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		panic(err)
	}
	return icon
}
