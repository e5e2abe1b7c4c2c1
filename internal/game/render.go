package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/dropmerge/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including borders)
	cellHeight = 2 // Height of each cell (including borders)
	hudHeight  = 3
	footerRows = 3 // Column labels, message, hint
)

// flashColor marks tiles produced by a recent merge.
const flashColor = core.ColorBrightMagenta

// tileColors is indexed by log2(value)-1.
var tileColors = []core.Color{
	core.ColorWhite,        // 2
	core.ColorBrightWhite,  // 4
	core.ColorYellow,       // 8
	core.ColorOrange,       // 16
	core.ColorRed,          // 32
	core.ColorBrightRed,    // 64
	core.ColorBrightYellow, // 128
	core.ColorGreen,        // 256
	core.ColorBrightGreen,  // 512
	core.ColorCyan,         // 1024
	core.ColorBrightCyan,   // 2048
	core.ColorBlue,         // 4096
	core.ColorBrightBlue,   // 8192
}

// TileColor returns the display color for a tile value.
func TileColor(v int) core.Color {
	if v <= 0 {
		return core.ColorGray
	}
	i := -1
	for v > 1 {
		v >>= 1
		i++
	}
	if i < 0 || i >= len(tileColors) {
		return core.ColorMagenta
	}
	return tileColors[i]
}

// layoutSize returns the minimum screen size for the board.
func (g *Game) layoutSize() (w, h int) {
	boardW := g.grid.Width()*cellWidth + 1
	boardH := g.grid.Length()*cellHeight + 1
	return max(boardW, 28) + 2, hudHeight + 2 + boardH + footerRows
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	// Calculate board position (centered)
	boardW := g.grid.Width()*cellWidth + 1
	boardH := g.grid.Length()*cellHeight + 1
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 2

	g.renderHUD(dst, boardX, boardW)
	g.renderCursor(dst, boardX, boardY-1)
	g.renderBoard(dst, boardX, boardY)
	g.renderFooter(dst, boardX, boardY+boardH)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title, scores and mode.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := g.Title()
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightCyan)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.score))
	best := fmt.Sprintf("Best: %d", g.highScore)
	dst.DrawText(max(boardX, boardX+boardW-len(best)), 1, best)

	dst.DrawText(boardX, 2, fmt.Sprintf("Moves: %d", g.moves))
	maxStr := fmt.Sprintf("Max: %d", g.grid.MaxTile())
	dst.DrawText(max(boardX, boardX+boardW-len(maxStr)), 2, maxStr)
}

// renderCursor draws the next value above the column it will fall into.
func (g *Game) renderCursor(dst *core.Screen, boardX, y int) {
	col := g.cursor
	if g.mode != ModeHuman && g.lastCol >= 0 {
		col = g.lastCol
	}
	label := "v" + strconv.Itoa(g.next)
	x := boardX + col*cellWidth + 1 + centerPad(label)
	dst.DrawTextColor(x, y, label, TileColor(g.next))
}

// renderBoard draws the grid with row 0 at the bottom.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	w, l := g.grid.Width(), g.grid.Length()

	for y := range l + 1 {
		for x := range w + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight
			dst.SetColor(px, py, junction(x, y, w, l), core.ColorGray)

			if x < w {
				for i := 1; i < cellWidth; i++ {
					dst.SetColor(px+i, py, '─', core.ColorGray)
				}
			}
			if y < l {
				for i := 1; i < cellHeight; i++ {
					dst.SetColor(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}

	for r := range l {
		screenRow := l - 1 - r
		for c := range w {
			v := g.grid.At(r, c)
			if v == 0 {
				continue
			}
			color := TileColor(v)
			if g.flash.active(c, v) {
				color = flashColor
			}
			s := strconv.Itoa(v)
			x := boardX + c*cellWidth + 1 + centerPad(s)
			y := boardY + screenRow*cellHeight + 1
			dst.DrawTextColor(x, y, s, color)
		}
	}
}

func junction(x, y, w, l int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == w:
		return '┐'
	case y == l && x == 0:
		return '└'
	case y == l && x == w:
		return '┘'
	case y == 0:
		return '┬'
	case y == l:
		return '┴'
	case x == 0:
		return '├'
	case x == w:
		return '┤'
	default:
		return '┼'
	}
}

// centerPad returns the left padding that centers s inside a cell.
func centerPad(s string) int {
	return max(0, (cellWidth-1-len(s))/2)
}

// renderFooter draws column labels, the flash message and the hint line.
func (g *Game) renderFooter(dst *core.Screen, boardX, y int) {
	for c := range g.grid.Width() {
		label := strconv.Itoa(c + 1)
		color := core.ColorGray
		switch {
		case !g.grid.CanPlace(c, g.next):
			color = core.ColorRed
		case g.mode == ModeHuman && c == g.cursor:
			color = core.ColorBrightWhite
		}
		dst.DrawTextColor(boardX+c*cellWidth+1+centerPad(label), y, label, color)
	}

	if g.message != "" {
		dst.DrawTextColor(boardX, y+1, g.message, core.ColorBrightRed)
	}

	if g.showHint && !g.over {
		dst.DrawTextColor(boardX, y+2, g.hintLine(), core.ColorCyan)
	}
}

// hintLine lists valid columns best first, e.g. "Hint: 2 > 1 > 4".
func (g *Game) hintLine() string {
	var cols []string
	for _, sc := range g.Hints() {
		if sc.Valid() {
			cols = append(cols, strconv.Itoa(sc.Column+1))
		}
	}
	if len(cols) == 0 {
		return "Hint: no valid column"
	}
	return "Hint: " + strings.Join(cols, " > ")
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX, centerY := core.NewRect(boardX, boardY, boardW, boardH).Center()

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.over {
		maxStr := fmt.Sprintf("Max tile: %d", g.grid.MaxTile())
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", maxStr, "Press R to restart")
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}
