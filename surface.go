package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ScreenSurface paints debug-draw output onto an ebiten image.
type ScreenSurface struct {
	dst   *ebiten.Image
	white *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

func NewScreenSurface() *ScreenSurface {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return &ScreenSurface{
		white: img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Target sets the image drawn on until the next call.
func (s *ScreenSurface) Target(dst *ebiten.Image) {
	s.dst = dst
}

func (s *ScreenSurface) StrokeLine(x0, y0, x1, y1, width float32, clr color.Color) {
	if s.dst == nil {
		return
	}
	vector.StrokeLine(s.dst, x0, y0, x1, y1, width, clr, true)
}

// FillPolygon draws a triangle fan, which is enough for convex shapes.
func (s *ScreenSurface) FillPolygon(points []float32, clr color.Color) {
	n := len(points) / 2
	if s.dst == nil || n < 3 {
		return
	}
	c := color.NRGBAModel.Convert(clr).(color.NRGBA)
	r, g, b, a := float32(c.R)/0xff, float32(c.G)/0xff, float32(c.B)/0xff, float32(c.A)/0xff

	s.vertices = s.vertices[:0]
	for i := 0; i < n; i++ {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   points[2*i],
			DstY:   points[2*i+1],
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}
	s.indices = s.indices[:0]
	for i := 1; i < n-1; i++ {
		s.indices = append(s.indices, 0, uint16(i), uint16(i+1))
	}
	s.dst.DrawTriangles(s.vertices, s.indices, s.white, &ebiten.DrawTrianglesOptions{})
}
