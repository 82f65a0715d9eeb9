package game

// BoardSize is the number of tiles on the circular board. Positions wrap
// modulo this value.
const BoardSize = 40

// Tile is one board position. A zero Price means the tile can never be
// bought. Owner holds the player id once the tile is purchased and is never
// cleared afterwards.
type Tile struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Color string `json:"color"`
	Rent  int    `json:"rent"`
	Owner string `json:"owner,omitempty"`
}

var boardData = [BoardSize]Tile{
	{Name: "GO", Price: 0, Color: "gold", Rent: 0},
	{Name: "M1", Price: 60, Color: "#e74c3c", Rent: 2},
	{Name: "Community", Price: 0, Color: "#fff", Rent: 0},
	{Name: "M2", Price: 60, Color: "#e74c3c", Rent: 4},
	{Name: "Tax1", Price: 200, Color: "gray", Rent: 0},
	{Name: "RR1", Price: 200, Color: "#34495e", Rent: 25},
	{Name: "O1", Price: 100, Color: "#f39c12", Rent: 6},
	{Name: "Chance", Price: 0, Color: "#fff", Rent: 0},
	{Name: "O2", Price: 100, Color: "#f39c12", Rent: 6},
	{Name: "Tax2", Price: 100, Color: "gray", Rent: 0},
	{Name: "Jail", Price: 0, Color: "darkblue", Rent: 0},
	{Name: "P1", Price: 120, Color: "#8e44ad", Rent: 6},
	{Name: "Utility1", Price: 150, Color: "#9b59b6", Rent: 10},
	{Name: "P2", Price: 140, Color: "#9b59b6", Rent: 8},
	{Name: "P3", Price: 160, Color: "#3498db", Rent: 12},
	{Name: "RR2", Price: 200, Color: "#34495e", Rent: 25},
	{Name: "P4", Price: 180, Color: "#3498db", Rent: 10},
	{Name: "Community", Price: 0, Color: "#fff", Rent: 0},
	{Name: "P5", Price: 180, Color: "#3498db", Rent: 10},
	{Name: "P6", Price: 200, Color: "#3498db", Rent: 14},
	{Name: "FreePark", Price: 0, Color: "lime", Rent: 0},
	{Name: "G1", Price: 220, Color: "#2ecc71", Rent: 12},
	{Name: "Chance", Price: 0, Color: "#fff", Rent: 0},
	{Name: "G2", Price: 220, Color: "#2ecc71", Rent: 12},
	{Name: "G3", Price: 240, Color: "#27ae60", Rent: 14},
	{Name: "RR3", Price: 200, Color: "#34495e", Rent: 25},
	{Name: "B1", Price: 260, Color: "#e67e22", Rent: 15},
	{Name: "B2", Price: 260, Color: "#e67e22", Rent: 15},
	{Name: "Utility2", Price: 150, Color: "#f1c40f", Rent: 10},
	{Name: "B3", Price: 280, Color: "#e67e22", Rent: 20},
	{Name: "GoToJail", Price: 0, Color: "red", Rent: 0},
	{Name: "I1", Price: 300, Color: "#f39c12", Rent: 18},
	{Name: "I2", Price: 300, Color: "#f39c12", Rent: 18},
	{Name: "Community", Price: 0, Color: "#fff", Rent: 0},
	{Name: "I3", Price: 320, Color: "#f39c12", Rent: 20},
	{Name: "RR4", Price: 200, Color: "#34495e", Rent: 25},
	{Name: "S1", Price: 350, Color: "#e74c3c", Rent: 22},
	{Name: "Chance", Price: 0, Color: "#fff", Rent: 0},
	{Name: "S2", Price: 350, Color: "#e74c3c", Rent: 22},
	{Name: "Tax3", Price: 100, Color: "gray", Rent: 0},
}

// NewBoard returns a fresh copy of the board. Every room gets its own copy so
// ownership changes in one room can never leak into another.
func NewBoard() []Tile {
	tiles := make([]Tile, BoardSize)
	copy(tiles, boardData[:])
	return tiles
}
