package gioui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

// LabelStyle is a single line of text with a drop shadow.
type LabelStyle struct {
	Text      string
	Color     color.NRGBA
	Shade     color.NRGBA
	Alignment layout.Direction
	Font      font.Font
	Size      unit.Sp
	Shaper    *text.Shaper
}

func (l LabelStyle) Layout(gtx C) D {
	return l.Alignment.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min = image.Point{}
		label := widget.Label{Alignment: text.Start, MaxLines: 1}
		if l.Shade.A > 0 {
			paint.ColorOp{Color: l.Shade}.Add(gtx.Ops)
			offs := op.Offset(image.Pt(1, 1)).Push(gtx.Ops)
			label.Layout(gtx, l.Shaper, l.Font, l.Size, l.Text, op.CallOp{})
			offs.Pop()
		}
		paint.ColorOp{Color: l.Color}.Add(gtx.Ops)
		return label.Layout(gtx, l.Shaper, l.Font, l.Size, l.Text, op.CallOp{})
	})
}

func (th *Theme) Label(str string, c color.NRGBA, size unit.Sp) LabelStyle {
	return LabelStyle{
		Text:      str,
		Color:     c,
		Shade:     black,
		Alignment: layout.W,
		Size:      size,
		Shaper:    th.Material.Shaper,
	}
}
