package softrender

import "image"

// DefaultTileSize is the edge length of a square tile in pixels.
const DefaultTileSize = 32

// NewTiles splits a width×height image into tiles of at most size×size.
// Edge tiles are clipped; together the tiles cover every pixel once.
func NewTiles(width, height, size int) []image.Rectangle {
	if size <= 0 {
		size = DefaultTileSize
	}
	var tiles []image.Rectangle
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			tiles = append(tiles, image.Rect(x, y, min(x+size, width), min(y+size, height)))
		}
	}
	return tiles
}
