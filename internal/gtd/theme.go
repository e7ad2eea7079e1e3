package gtd

import "log/slog"

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// LoadTheme reads the theme slot. Anything other than the literal "light",
// including a read error, means dark.
func LoadTheme(kv KV, app string) Theme {
	v, ok, err := kv.Get(ThemeKey(app))
	if err != nil || !ok || v != string(ThemeLight) {
		return ThemeDark
	}
	return ThemeLight
}

// SaveTheme writes the theme slot; errors are logged only.
func SaveTheme(kv KV, app string, theme Theme, log *slog.Logger) {
	if err := kv.Set(ThemeKey(app), string(theme)); err != nil && log != nil {
		log.Error("save theme failed", "key", ThemeKey(app), "err", err)
	}
}

func ThemeFor(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
