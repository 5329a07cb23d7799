package client

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Colors used in the UI
var (
	ColorBackground     = color.RGBA{20, 20, 30, 255}
	ColorPanel          = color.RGBA{30, 35, 50, 255}
	ColorPanelLight     = color.RGBA{45, 50, 70, 255}
	ColorPrimary        = color.RGBA{70, 130, 180, 255} // Steel blue
	ColorPrimaryHover   = color.RGBA{100, 160, 210, 255}
	ColorSecondary      = color.RGBA{60, 60, 80, 255}
	ColorSecondaryHover = color.RGBA{80, 80, 100, 255}
	ColorDanger         = color.RGBA{180, 60, 60, 255}
	ColorText           = color.RGBA{220, 220, 230, 255}
	ColorTextMuted      = color.RGBA{140, 140, 160, 255}
	ColorBorder         = color.RGBA{60, 65, 80, 255}
)

// Button represents a clickable button.
type Button struct {
	X, Y, W, H int
	Text       string
	OnClick    func()
	Disabled   bool
	Primary    bool
	hovered    bool
}

// Update handles button input.
func (b *Button) Update() {
	if b.Disabled {
		b.hovered = false
		return
	}

	mx, my := ebiten.CursorPosition()
	b.hovered = b.contains(mx, my)

	if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if b.OnClick != nil {
			b.OnClick()
		}
	}
}

func (b *Button) contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Draw renders the button.
func (b *Button) Draw(screen *ebiten.Image) {
	var bgColor color.RGBA
	switch {
	case b.Disabled:
		bgColor = ColorSecondary
	case b.Primary && b.hovered:
		bgColor = ColorPrimaryHover
	case b.Primary:
		bgColor = ColorPrimary
	case b.hovered:
		bgColor = ColorSecondaryHover
	default:
		bgColor = ColorSecondary
	}

	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), bgColor, false)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, ColorBorder, false)

	DrawTextCentered(screen, b.Text, b.X+b.W/2, b.Y+b.H/2-6)
}

// DrawPanel draws a panel background.
func DrawPanel(screen *ebiten.Image, x, y, w, h int) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), ColorPanel, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, ColorBorder, false)
}

// DrawText draws text at a position. The debug font is fixed white.
func DrawText(screen *ebiten.Image, text string, x, y int) {
	ebitenutil.DebugPrintAt(screen, text, x, y)
}

// DrawTextCentered draws text centered at a position.
func DrawTextCentered(screen *ebiten.Image, text string, x, y int) {
	w := len(text) * 6
	ebitenutil.DebugPrintAt(screen, text, x-w/2, y)
}

// ListItem represents an item in a list.
type ListItem struct {
	ID      string
	Text    string
	Subtext string
}

// List represents a scrollable list of items.
type List struct {
	X, Y, W, H   int
	Items        []ListItem
	OnSelect     func(id string)
	selectedIdx  int
	scrollOffset int
	itemHeight   int
}

// NewList creates a new list.
func NewList(x, y, w, h int) *List {
	return &List{
		X:           x,
		Y:           y,
		W:           w,
		H:           h,
		selectedIdx: -1,
		itemHeight:  40,
	}
}

// Update handles list input.
func (l *List) Update() {
	mx, my := ebiten.CursorPosition()
	if mx < l.X || mx >= l.X+l.W || my < l.Y || my >= l.Y+l.H {
		return
	}

	_, dy := ebiten.Wheel()
	l.scroll(-int(dy * 30))

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		l.clickAt(my)
	}
}

func (l *List) scroll(delta int) {
	l.scrollOffset += delta
	maxScroll := max(len(l.Items)*l.itemHeight-l.H, 0)
	l.scrollOffset = min(max(l.scrollOffset, 0), maxScroll)
}

func (l *List) clickAt(y int) {
	idx := (y - l.Y + l.scrollOffset) / l.itemHeight
	if idx < 0 || idx >= len(l.Items) {
		return
	}
	l.selectedIdx = idx
	if l.OnSelect != nil {
		l.OnSelect(l.Items[idx].ID)
	}
}

// Draw renders the list.
func (l *List) Draw(screen *ebiten.Image) {
	DrawPanel(screen, l.X, l.Y, l.W, l.H)
	if len(l.Items) == 0 {
		DrawText(screen, "(empty)", l.X+10, l.Y+10)
		return
	}

	visibleStart := l.scrollOffset / l.itemHeight
	visibleEnd := (l.scrollOffset+l.H)/l.itemHeight + 1

	for i := visibleStart; i < visibleEnd && i < len(l.Items); i++ {
		item := l.Items[i]
		itemY := l.Y + i*l.itemHeight - l.scrollOffset
		if itemY+l.itemHeight > l.Y+l.H {
			break
		}

		if i == l.selectedIdx {
			vector.DrawFilledRect(screen, float32(l.X+2), float32(itemY+2),
				float32(l.W-4), float32(l.itemHeight-4), ColorPanelLight, false)
		}

		DrawText(screen, item.Text, l.X+10, itemY+6)
		if item.Subtext != "" {
			DrawText(screen, item.Subtext, l.X+10, itemY+21)
		}
	}

	if len(l.Items)*l.itemHeight > l.H {
		totalHeight := len(l.Items) * l.itemHeight
		scrollbarHeight := float32(l.H) * float32(l.H) / float32(totalHeight)
		scrollbarY := float32(l.Y) + float32(l.scrollOffset)*float32(l.H)/float32(totalHeight)
		vector.DrawFilledRect(screen, float32(l.X+l.W-8), scrollbarY, 6, scrollbarHeight, ColorBorder, false)
	}
}

// SetItems sets the list items.
func (l *List) SetItems(items []ListItem) {
	l.Items = items
	l.scrollOffset = 0
	l.selectedIdx = -1
}

// GetSelectedID returns the selected item's ID.
func (l *List) GetSelectedID() string {
	if l.selectedIdx >= 0 && l.selectedIdx < len(l.Items) {
		return l.Items[l.selectedIdx].ID
	}
	return ""
}
