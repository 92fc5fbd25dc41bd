package renderer

import (
	"image"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds in camera-space raster coordinates
}

// SinkBounds returns the tile's rectangle in sink rows, which run top to bottom
func (t *Tile) SinkBounds(height int) image.Rectangle {
	return image.Rect(t.Bounds.Min.X, height-t.Bounds.Max.Y, t.Bounds.Max.X, height-t.Bounds.Min.Y)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	if tileSize <= 0 {
		tileSize = max(width, height)
	}

	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: tileID, Bounds: image.Rect(x0, y0, x1, y1)})
			tileID++
		}
	}

	return tiles
}

// TileResult contains the rendered pixels of one tile
type TileResult struct {
	Tile   *Tile
	Pixels [][3]float32 // Row-major over Tile.Bounds
	Stats  RenderStats
}

// RenderTile samples every pixel of a tile
func (rc *RenderContext) RenderTile(tile *Tile) TileResult {
	bounds := tile.Bounds
	result := TileResult{
		Tile:   tile,
		Pixels: make([][3]float32, 0, bounds.Dx()*bounds.Dy()),
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color := rc.SamplePixel(x, y, &result.Stats)
			result.Pixels = append(result.Pixels, color.Float32())
		}
	}

	return result
}
