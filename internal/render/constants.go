package render

// Data URI prefixes
const (
	JSONURIPrefix = "data:application/json;base64,"
	SVGURIPrefix  = "data:image/svg+xml;base64,"
)

// Canvas and palette
const (
	CanvasSize = 350
	LineHeight = 20
	FontFamily = "serif"
	FontSize   = 14

	AliveBackground     = "black"
	AliveForeground     = "white"
	SlainBackground     = "#8a0303"
	SlainForeground     = "white"
	UnclaimedBackground = "#3a3a3a"
	UnclaimedForeground = "#b0b0b0"
)

// Attribute trait types
const (
	TraitArchetype = "Archetype"
	TraitStatus    = "Status"
	TraitWeakness  = "Weakness"
	TraitWeapon    = "Slain With"
	TraitLoot      = "Loot"
)

// Labels
const (
	LabelUnclaimed = "Unclaimed"
	LabelSlain     = "SLAIN"
	LabelWeakTo    = "Weak to"
	LabelSlainBy   = "by"
	LabelWith      = "with"
)

// Error messages
const (
	ErrMsgMissingPrefix = "missing data uri prefix"
	ErrMsgDecodeFailed  = "failed to decode payload"
)
