package domain

import "fmt"

// Icon is the closed set of achievement badge icons.
type Icon int

// Icons. IconDefault must stay first.
const (
	IconDefault Icon = iota
	IconTarget
	IconShield
	IconBrain
	IconClock
	IconFire
	IconTrophy
	IconChart
	IconMoney
	IconGlobe
	IconCompass
	IconBook
	IconCalendar
	IconCrown
	IconStar
	IconScale

	iconCount
)

var iconNames = [...]string{
	IconDefault:  "award",
	IconTarget:   "target",
	IconShield:   "shield",
	IconBrain:    "brain",
	IconClock:    "clock",
	IconFire:     "fire",
	IconTrophy:   "trophy",
	IconChart:    "chart",
	IconMoney:    "money",
	IconGlobe:    "globe",
	IconCompass:  "compass",
	IconBook:     "book",
	IconCalendar: "calendar",
	IconCrown:    "crown",
	IconStar:     "star",
	IconScale:    "scale",
}

var iconGlyphs = [...]string{
	IconDefault:  "🏅",
	IconTarget:   "🎯",
	IconShield:   "🛡️",
	IconBrain:    "🧠",
	IconClock:    "⏱️",
	IconFire:     "🔥",
	IconTrophy:   "🏆",
	IconChart:    "📈",
	IconMoney:    "💰",
	IconGlobe:    "🌍",
	IconCompass:  "🧭",
	IconBook:     "📖",
	IconCalendar: "📅",
	IconCrown:    "👑",
	IconStar:     "⭐",
	IconScale:    "⚖️",
}

// Fails to compile when an icon is added without a name and glyph.
var (
	_ = [1]struct{}{}[len(iconNames)-int(iconCount)]
	_ = [1]struct{}{}[len(iconGlyphs)-int(iconCount)]
)

// String returns the icon key. Out-of-range values map to the default icon.
func (i Icon) String() string {
	if i < 0 || i >= iconCount {
		return iconNames[IconDefault]
	}
	return iconNames[i]
}

// Glyph returns the emoji rendered for the icon.
func (i Icon) Glyph() string {
	if i < 0 || i >= iconCount {
		return iconGlyphs[IconDefault]
	}
	return iconGlyphs[i]
}

// MarshalText encodes the icon by key.
func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes an icon key. Unknown keys are an error.
func (i *Icon) UnmarshalText(b []byte) error {
	s := string(b)
	for idx, name := range iconNames {
		if name == s {
			*i = Icon(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown icon %q", s)
}
