package frames

import (
	"image"
	"image/color"
)

// Frame is a decoded RGB raster handed to the engine by a frame source.
type Frame interface {
	Width() int
	Height() int
	RGB(x, y int) (r, g, b uint8)
}

// RGB24 is a packed rgb24 raster, the layout ffmpeg emits for -pix_fmt rgb24.
type RGB24 struct {
	W   int
	H   int
	Pix []byte
}

// NewRGB24 allocates a zeroed raster of the given size.
func NewRGB24(width, height int) *RGB24 {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &RGB24{W: width, H: height, Pix: make([]byte, width*height*3)}
}

func (f *RGB24) Width() int  { return f.W }
func (f *RGB24) Height() int { return f.H }

func (f *RGB24) RGB(x, y int) (r, g, b uint8) {
	i := (y*f.W + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Set writes one pixel.
func (f *RGB24) Set(x, y int, r, g, b uint8) {
	i := (y*f.W + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
}

// Fill paints every pixel with the same color.
func (f *RGB24) Fill(r, g, b uint8) {
	for i := 0; i+2 < len(f.Pix); i += 3 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
	}
}

// FromImage converts any image.Image into a packed raster, dropping alpha.
func FromImage(img image.Image) *RGB24 {
	bounds := img.Bounds()
	f := NewRGB24(bounds.Dx(), bounds.Dy())

	// fast path for the decoder's usual output
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < f.H; y++ {
			src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+f.W*4]
			dst := f.Pix[y*f.W*3 : (y+1)*f.W*3]
			for x := 0; x < f.W; x++ {
				dst[x*3], dst[x*3+1], dst[x*3+2] = src[x*4], src[x*4+1], src[x*4+2]
			}
		}
		return f
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			f.Set(x-bounds.Min.X, y-bounds.Min.Y, c.R, c.G, c.B)
		}
	}
	return f
}
