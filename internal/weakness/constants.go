package weakness

// ArchetypePluckPrefix seeds the archetype hash for a monster ID
const ArchetypePluckPrefix = "MONSTER"

// Error messages
const (
	ErrMsgNoArchetypes       = "bestiary has no archetypes"
	ErrMsgDuplicateArchetype = "duplicate archetype %q"
	ErrMsgUnknownWeapon      = "archetype %q lists unknown weapon %q"
	ErrMsgUncoveredWeapon    = "weapon %q slays no archetype"
	ErrMsgEmptyArchetypeName = "archetype %d has no name"
)
