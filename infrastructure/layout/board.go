package layout

// BoardPiece is one grid cell. Item is nil for cells past the end of a rack.
// Column and row numbers are 1-based.
type BoardPiece struct {
	ColStart           int             `json:"colStart"`
	RowStart           int             `json:"rowStart"`
	Rack               string          `json:"rack"`
	Item               *LocationRecord `json:"item,omitempty"`
	RackEdgeRight      bool            `json:"rackEdgeRight"`
	RackEdgeLeftNoLine bool            `json:"rackEdgeLeftNoLine"`
}

// Board is every rack placed side by side.
type Board struct {
	Pieces    []BoardPiece `json:"pieces"`
	Rows      int          `json:"boardRows"`
	TotalCols int          `json:"totalCols"`
}

// EmptyBoard is the board for a dataset with no placeable racks.
func EmptyBoard() Board {
	return Board{Pieces: []BoardPiece{}, Rows: 1, TotalCols: 1}
}

// BuildBoard assigns every slot of every rack an absolute cell. Racks get
// contiguous column spans in group order and all racks are padded to the
// tallest rack's height.
func BuildBoard(groups []RackGroup) Board {
	if len(groups) == 0 {
		return EmptyBoard()
	}

	rows, totalCols := 0, 0
	for _, g := range groups {
		rows = max(rows, g.Rows)
		totalCols += g.Cols
	}
	if rows < 1 || totalCols < 1 {
		return EmptyBoard()
	}

	pieces := make([]BoardPiece, 0, rows*totalCols)
	startCol := 1
	for gi, g := range groups {
		for row := 0; row < rows; row++ {
			for col := 0; col < g.Cols; col++ {
				p := BoardPiece{
					ColStart:           startCol + col,
					RowStart:           row + 1,
					Rack:               g.Rack,
					RackEdgeRight:      col == g.Cols-1,
					RackEdgeLeftNoLine: col == 0 && gi > 0,
				}
				if idx := row*g.Cols + col; idx < len(g.Items) {
					p.Item = &g.Items[idx]
				}
				pieces = append(pieces, p)
			}
		}
		startCol += g.Cols
	}

	return Board{Pieces: pieces, Rows: rows, TotalCols: totalCols}
}
