package widget

import (
	"strings"

	"github.com/somlutionsom/dday-project/internal/model"
)

// selectionThemes はカラープロパティの選択肢（emoji）からテーマ名への固定対応表。
// 対応表に無い選択肢はデフォルトテーマに落ちる。
var selectionThemes = map[string]string{
	"🔵":  model.ThemeBlue,
	"🩷":  model.ThemePink,
	"❤️": model.ThemeRed,
	"⚫":  model.ThemeBlack,
	"💚":  model.ThemeGreen,
	"💜":  model.ThemePurple,
}

// themeForSelection は選択肢名をテーマ名に解決する。
// emoji対応表を先に引き、テーマ名そのもの（"blue" 等）での指定も受け付ける。
func themeForSelection(selection string) string {
	if theme, ok := selectionThemes[selection]; ok {
		return theme
	}

	switch strings.ToLower(strings.TrimSpace(selection)) {
	case model.ThemeBlue, model.ThemePink, model.ThemeRed,
		model.ThemeBlack, model.ThemeGreen, model.ThemePurple:
		return strings.ToLower(strings.TrimSpace(selection))
	}

	return model.DefaultTheme
}

// Palette はウィジェット1枚分の配色セット。
type Palette struct {
	Header  string
	Button1 string
	Button2 string
	Button3 string
	Badge   string
	Shadow  string
}

// palettes はテーマ名ごとの配色定義。
var palettes = map[string]Palette{
	model.ThemeBlue: {
		Header:  "#CFEBFF",
		Button1: "#FFFFFF",
		Button2: "#7FC4ED",
		Button3: "#5BB4E8",
		Badge:   "#9CD5FE",
		Shadow:  "#CADDEE",
	},
	model.ThemePink: {
		Header:  "#FFE6EF",
		Button1: "#FFFFFF",
		Button2: "#FFB6C9",
		Button3: "#FFD6E2",
		Badge:   "#FFB6C9",
		Shadow:  "#FFD6E2",
	},
	model.ThemeRed: {
		Header:  "#D91A2A",
		Button1: "#F2F2F2",
		Button2: "#FF4C4C",
		Button3: "#F28585",
		Badge:   "#D91A2A",
		Shadow:  "#590716",
	},
	model.ThemeBlack: {
		Header:  "#E6E6E6",
		Button1: "#FFFFFF",
		Button2: "#4D4D4D",
		Button3: "#B3B3B3",
		Badge:   "#4D4D4D",
		Shadow:  "#B3B3B3",
	},
	model.ThemeGreen: {
		Header:  "#E6FFE6",
		Button1: "#FFFFFF",
		Button2: "#66CC99",
		Button3: "#B3E6CC",
		Badge:   "#66CC99",
		Shadow:  "#B3E6CC",
	},
	model.ThemePurple: {
		Header:  "#F0E6FF",
		Button1: "#FFFFFF",
		Button2: "#B599FF",
		Button3: "#D6C2FF",
		Badge:   "#B599FF",
		Shadow:  "#D6C2FF",
	},
}

// PaletteFor はテーマ名に対応する配色を返す。未知のテーマはデフォルトに落ちる。
func PaletteFor(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[model.DefaultTheme]
}
