package tictactoe

const (
	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	BoardSize = 9
)

const (
	ResultOngoing = "ongoing"
	ResultWin     = "win"
	ResultDraw    = "draw"
)

// WinCombos lists the 8 canonical winning triples: rows, then columns,
// then diagonals. The order is fixed so evaluation is deterministic.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 9-cell grid, row-major from the top-left corner.
type Board [BoardSize]string

// Result describes the outcome of evaluating a board.
type Result struct {
	Status string
	Winner string
	Line   [3]int
}

// NewBoard returns an all-empty board.
func NewBoard() Board {
	return Board{}
}

// Evaluate is the sole authority on game termination. It checks every
// winning triple for three equal non-empty marks, then falls back to a
// draw check on a fully occupied board.
func Evaluate(board Board) Result {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return Result{Status: ResultWin, Winner: a, Line: combo}
		}
	}

	for _, cell := range board {
		if cell == EmptyCell {
			return Result{Status: ResultOngoing}
		}
	}

	return Result{Status: ResultDraw}
}

// ToggleMark returns the mark of the opposite seat.
func ToggleMark(currentMark string) string {
	if currentMark == MarkX {
		return MarkO
	}
	return MarkX
}

// IsWin reports whether the result is a win.
func (that Result) IsWin() bool {
	return that.Status == ResultWin
}

// IsDraw reports whether the result is a draw.
func (that Result) IsDraw() bool {
	return that.Status == ResultDraw
}

// IsOngoing reports whether the game may continue.
func (that Result) IsOngoing() bool {
	return that.Status == ResultOngoing
}
