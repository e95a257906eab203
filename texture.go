package ombra

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Color is an 8-bit RGBA color, usable as a map key for the color to texture
// lookup table.
type Color struct {
	R, G, B, A uint8
}

func Rgba(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func White() Color {
	return Color{255, 255, 255, 255}
}

func (c Color) bytes() []byte {
	return []byte{c.R, c.G, c.B, c.A}
}

// Texture is a GPU texture plus the extent it was created with.
type Texture struct {
	Handle uint32
	Extent Extent2D
}

// PixelTexture creates a 1x1 texture of a flat color. Flat-colored materials
// resolve to one of these through the scene's color table.
func PixelTexture(backend Backend, color Color) Texture {
	return Texture{
		Handle: backend.CreateColorTexture(1, 1, color.bytes()),
		Extent: Extent2D{Width: 1, Height: 1},
	}
}

// ImageTexture uploads an image, converting it to tightly packed RGBA first.
// Decoding image files is the asset layer's job; this only takes an already
// decoded image.Image.
func ImageTexture(backend Backend, img image.Image) Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)

	extent := Extent2D{Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
	return Texture{
		Handle: backend.CreateColorTexture(extent.Width, extent.Height, rgba.Pix),
		Extent: extent,
	}
}

// DepthTexture creates a depth-capable texture for offscreen targets.
func DepthTexture(backend Backend, extent Extent2D) Texture {
	return Texture{
		Handle: backend.CreateDepthTexture(extent.Width, extent.Height),
		Extent: extent,
	}
}

// ColorTexture creates an empty color attachment for offscreen targets.
func ColorTexture(backend Backend, extent Extent2D) Texture {
	return Texture{
		Handle: backend.CreateColorTexture(extent.Width, extent.Height, nil),
		Extent: extent,
	}
}
