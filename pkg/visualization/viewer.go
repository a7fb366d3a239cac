// Package visualization renders binary volume slices to images so
// intermediate engine results stay inspectable without any UI: a Boolean
// result or a morphed working grid can be dumped slice by slice and eyed
// in any image viewer.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"rtvoxel/pkg/structure"
)

// Viewer extracts 2D slices from a binary volume along any axis.
type Viewer struct {
	mask *structure.Mask
}

// NewViewer creates a viewer over the given mask.
func NewViewer(mask *structure.Mask) *Viewer {
	return &Viewer{mask: mask}
}

// ExtractSlice extracts a 2D slice from the volume along the specified
// axis. Set voxels render white, unset black.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}
	g := v.mask.Grid

	var img *image.Gray
	switch axis {
	case "x", "X":
		if position >= g.XSize {
			return nil, fmt.Errorf("position %d exceeds width %d", position, g.XSize)
		}
		img = image.NewGray(image.Rect(0, 0, g.ZSize, g.YSize))
		for y := 0; y < g.YSize; y++ {
			for z := 0; z < g.ZSize; z++ {
				img.SetGray(z, y, gray(v.mask.At(position, y, z)))
			}
		}

	case "y", "Y":
		if position >= g.YSize {
			return nil, fmt.Errorf("position %d exceeds height %d", position, g.YSize)
		}
		img = image.NewGray(image.Rect(0, 0, g.XSize, g.ZSize))
		for z := 0; z < g.ZSize; z++ {
			for x := 0; x < g.XSize; x++ {
				img.SetGray(x, z, gray(v.mask.At(x, position, z)))
			}
		}

	case "z", "Z":
		if position >= g.ZSize {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, g.ZSize)
		}
		img = image.NewGray(image.Rect(0, 0, g.XSize, g.YSize))
		for y := 0; y < g.YSize; y++ {
			for x := 0; x < g.XSize; x++ {
				img.SetGray(x, y, gray(v.mask.At(x, y, position)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

func gray(v uint8) color.Gray {
	if v != 0 {
		return color.Gray{Y: 255}
	}
	return color.Gray{}
}

// SaveSlice saves an extracted slice as a PNG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves every slice along the specified
// axis into outputDir.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	g := v.mask.Grid
	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = g.XSize
	case "y", "Y":
		maxPos = g.YSize
	case "z", "Z":
		maxPos = g.ZSize
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
