package coord

const (
	// FieldSize is the width of the rendered field in pixels.
	FieldSize = 468.0

	// TileInches is the length of one field tile.
	TileInches = 24.0
)

// Field maps between screen pixels and field inches.
type Field struct {
	OriginX, OriginY float64

	// Tile is the size of one tile in pixels.
	Tile float64
}

// DefaultField is the 6x6 tile field the editor renders.
var DefaultField = Field{
	OriginX: 638,
	OriginY: 339,
	Tile:    FieldSize / 6,
}

// ToInch converts a pixel coordinate to field inches. Screen Y grows
// downward, field Y grows upward.
func (f Field) ToInch(px, py int) (x, y float64) {
	x = (float64(px) - f.OriginX) / f.Tile * TileInches
	y = -(float64(py) - f.OriginY) / f.Tile * TileInches
	return x, y
}

func (f Field) PixelX(x float64) int {
	return int(x/TileInches*f.Tile + f.OriginX)
}

func (f Field) PixelY(y float64) int {
	return int(-y/TileInches*f.Tile + f.OriginY)
}

// ToPixel converts field inches to a pixel coordinate, truncating
// toward zero.
func (f Field) ToPixel(x, y float64) (px, py int) {
	return f.PixelX(x), f.PixelY(y)
}
