package loaders

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/output"
)

// ErrUnsupportedFormat is returned for files no loader understands
var ErrUnsupportedFormat = errors.New("loaders: unsupported format")

// ImageData contains loaded image data as a row-major Vec3 array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadImage loads an environment or texture image. PNG, JPEG, TIFF and BMP files are
// decoded to [0,1]; .rad.zst radiance dumps keep their full float range.
func LoadImage(filename string) (*ImageData, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".rad.zst") {
		fb, err := output.ReadRadianceFile(filename)
		if err != nil {
			return nil, err
		}
		return imageDataFromFrame(fb), nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
		}
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return imageDataFromImage(img), nil
}

func imageDataFromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{Width: width, Height: height, Pixels: pixels}
}

func imageDataFromFrame(fb *output.FrameBuffer) *ImageData {
	pixels := make([]core.Vec3, fb.Width*fb.Height)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := fb.At(x, y)
			pixels[y*fb.Width+x] = core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
		}
	}
	return &ImageData{Width: fb.Width, Height: fb.Height, Pixels: pixels}
}
