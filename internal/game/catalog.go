package game

// RGB is a colour triple serialised as [r, g, b].
type RGB [3]uint8

// CatalogEntry is an immutable colored-ball identity.
type CatalogEntry struct {
	Name     string `json:"name"`
	Color    RGB    `json:"color"`
	Position Vec2   `json:"position"`
	Points   int    `json:"points"`
}

var catalog = [...]CatalogEntry{
	{Name: "Yellow", Color: RGB{240, 210, 0}, Position: Vec2{X: 400, Y: 496}, Points: 2},
	{Name: "Green", Color: RGB{40, 90, 50}, Position: Vec2{X: 400, Y: 305}, Points: 3},
	{Name: "Brown", Color: RGB{120, 60, 50}, Position: Vec2{X: 400, Y: 400}, Points: 4},
	{Name: "Blue", Color: RGB{30, 60, 90}, Position: Vec2{X: 700, Y: 400}, Points: 5},
	{Name: "Pink", Color: RGB{255, 120, 120}, Position: Vec2{X: 930, Y: 400}, Points: 6},
	{Name: "Black", Color: RGB{50, 50, 50}, Position: Vec2{X: 1120, Y: 400}, Points: 7},
}

var (
	redColor = ColorSpec{Name: "Red", Color: RGB{255, 0, 0}, CatalogIndex: -1}
	cueColor = ColorSpec{Name: "White", Color: RGB{255, 255, 255}, CatalogIndex: -1}
)

// Catalog returns a copy of the six colored-ball entries in slot order.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog[:])
	return out
}

// CatalogSize is the number of colored balls on the table.
func CatalogSize() int {
	return len(catalog)
}

func catalogColor(i int) ColorSpec {
	e := catalog[i]
	return ColorSpec{Name: e.Name, Color: e.Color, CatalogIndex: i}
}
