package gioui

import (
	"image"
	"sync/atomic"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vsariola/cave/param"
)

type (
	C = layout.Context
	D = layout.Dimensions

	// Editor draws the parameter panel. It reads the store on every frame, so
	// values changed by host automation show up at the refresh cadence, and
	// writes user edits straight back to the store.
	Editor struct {
		Title string
		Theme *Theme

		store *param.Store
		prefs *atomic.Pointer[Preferences]
		rows  []*paramRow
	}

	paramRow struct {
		desc    param.Descriptor
		caption string
		slider  widget.Float
		field   widget.Editor
		reset   widget.Clickable
		tip     component.TipArea
	}
)

var upper = cases.Upper(language.English)

func NewEditor(store *param.Store, prefs *atomic.Pointer[Preferences]) *Editor {
	e := &Editor{Title: "Cave", Theme: NewTheme(), store: store, prefs: prefs}
	for i := range store.Count() {
		d, _ := store.Descriptor(i)
		if d.Flags&param.Hidden != 0 {
			continue
		}
		r := &paramRow{desc: d, caption: upper.String(d.Name)}
		r.field.SingleLine = true
		r.field.Submit = true
		r.field.ReadOnly = d.Flags&param.ReadOnly != 0
		e.rows = append(e.rows, r)
	}
	return e
}

func (e *Editor) preferences() Preferences {
	if e.prefs != nil {
		if p := e.prefs.Load(); p != nil {
			return *p
		}
	}
	return DefaultPreferences()
}

// Layout is the frame callback: it handles the input of the previous frame,
// draws the panel and asks for the next frame after the refresh interval.
func (e *Editor) Layout(gtx C) D {
	prefs := e.preferences()
	gtx.Metric.PxPerDp *= prefs.Zoom
	gtx.Metric.PxPerSp *= prefs.Zoom
	for _, r := range e.rows {
		r.update(gtx, e.store)
	}
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, backgroundColor)
	children := make([]layout.FlexChild, 0, 2*len(e.rows)+1)
	children = append(children, layout.Rigid(e.Theme.Label(e.Title, primaryColor, unit.Sp(24)).Layout))
	for _, r := range e.rows {
		children = append(children,
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx C) D { return r.layout(gtx, e.Theme, e.store) }))
	}
	dims := layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
	gtx.Execute(op.InvalidateCmd{At: gtx.Now.Add(prefs.RefreshInterval)})
	return dims
}

func (r *paramRow) update(gtx C, store *param.Store) {
	id := r.desc.ID
	if r.desc.Flags&param.ReadOnly == 0 {
		if r.reset.Clicked(gtx) {
			store.Reset(id)
		}
		for {
			ev, ok := r.field.Update(gtx)
			if !ok {
				break
			}
			if s, ok := ev.(widget.SubmitEvent); ok {
				if v, ok := param.ParseValue(s.Text); ok {
					store.Set(id, v)
					r.field.SetText("")
				}
			}
		}
		if r.slider.Update(gtx) {
			store.Set(id, r.desc.Denormalize(float64(r.slider.Value)))
		}
	}
	if !r.slider.Dragging() {
		v, _ := store.Value(id)
		r.slider.Value = float32(min(max(r.desc.Normalize(v), 0), 1))
	}
}

func (r *paramRow) layout(gtx C, th *Theme, store *param.Store) D {
	v, _ := store.Value(r.desc.ID)
	text := param.FormatValue(v)
	slider := func(gtx C) D {
		s := material.Slider(th.Material, &r.slider)
		s.Color = th.Value
		tip := component.PlatformTooltip(th.Material, r.desc.Name+": "+text)
		tip.Bg = th.Tooltip
		return r.tip.Layout(gtx, tip, s.Layout)
	}
	value := func(gtx C) D {
		gtx.Constraints.Min.X = gtx.Dp(unit.Dp(64))
		return th.Label(text, th.Value, unit.Sp(16)).Layout(gtx)
	}
	reset := func(gtx C) D {
		btn := material.IconButton(th.Material, &r.reset, resetIcon, "Reset to default")
		btn.Size = unit.Dp(18)
		btn.Inset = layout.UniformInset(unit.Dp(4))
		btn.Background = transparent
		btn.Color = th.Caption
		return btn.Layout(gtx)
	}
	field := func(gtx C) D {
		ed := material.Editor(th.Material, &r.field, "type a value and press enter")
		ed.Color = highEmphasisTextColor
		ed.HintColor = th.Caption
		ed.TextSize = unit.Sp(14)
		return layout.Background{}.Layout(gtx,
			func(gtx C) D {
				defer clip.UniformRRect(image.Rectangle{Max: gtx.Constraints.Min}, gtx.Dp(4)).Push(gtx.Ops).Pop()
				paint.Fill(gtx.Ops, th.Surface)
				return D{Size: gtx.Constraints.Min}
			},
			func(gtx C) D { return layout.UniformInset(unit.Dp(6)).Layout(gtx, ed.Layout) })
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(th.Label(r.caption, th.Caption, unit.Sp(12)).Layout),
		layout.Rigid(func(gtx C) D {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, slider),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Rigid(value),
				layout.Rigid(reset))
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(field))
}
