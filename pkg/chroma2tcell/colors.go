// Package chroma2tcell picks tcell colours for file names, from a table of
// well known extensions and from chroma lexers and styles for everything else.
package chroma2tcell

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

const DefaultStyle = "dracula"

const (
	DirectoryColor = tcell.ColorDodgerBlue
	OtherColor     = tcell.ColorGray
	DefaultColor   = tcell.ColorWhiteSmoke
)

var fileColors = map[string]tcell.Color{
	"elf":  tcell.ColorRed,
	"exe":  tcell.ColorRed,
	"bin":  tcell.ColorRed,
	"iso":  tcell.ColorOrange,
	"zip":  tcell.ColorOrange,
	"gz":   tcell.ColorOrange,
	"7z":   tcell.ColorOrange,
	"json": tcell.ColorGold,
	"xml":  tcell.ColorLightYellow,
	"yaml": tcell.ColorLightYellow,
	"yml":  tcell.ColorLightYellow,
	"txt":  tcell.ColorWhite,
	"csv":  tcell.ColorLightGreen,
	"jpg":  tcell.ColorMediumPurple,
	"jpeg": tcell.ColorMediumPurple,
	"png":  tcell.ColorMediumPurple,
	"gif":  tcell.ColorMediumPurple,
	"webp": tcell.ColorMediumPurple,
	"mov":  tcell.ColorLightSalmon,
	"mp4":  tcell.ColorLightSalmon,
	"log":  tcell.ColorRosyBrown,
}

var getStyle = styles.Get

var matchLexer = lexers.Match

// Colorizer chooses colours from one chroma style.
type Colorizer struct {
	style *chroma.Style
}

// NewColorizer falls back to chroma's fallback style for unknown names.
func NewColorizer(styleName string) Colorizer {
	style := getStyle(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return Colorizer{style: style}
}

// ToTcell converts a chroma colour. Unset colours map to tcell.ColorDefault.
func ToTcell(c chroma.Colour) tcell.Color {
	if !c.IsSet() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}

// FileColor returns the colour for a file name.
// Source files get the style's keyword colour for their language.
func (c Colorizer) FileColor(name string) tcell.Color {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if color, ok := fileColors[ext]; ok {
		return color
	}
	if lexer := matchLexer(name); lexer != nil {
		if color := ToTcell(c.style.Get(chroma.Keyword).Colour); color != tcell.ColorDefault {
			return color
		}
	}
	return DefaultColor
}

// NameColor returns the colour for an entry of the given kind.
func (c Colorizer) NameColor(name string, isDir, isOther bool) tcell.Color {
	switch {
	case isDir:
		return DirectoryColor
	case isOther:
		return OtherColor
	default:
		return c.FileColor(name)
	}
}
