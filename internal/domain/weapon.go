package domain

// WeaponClass groups Loot weapons by how they strike.
type WeaponClass string

// Weapon classes
const (
	ClassBludgeon WeaponClass = "bludgeon"
	ClassBlade    WeaponClass = "blade"
	ClassWand     WeaponClass = "wand"
	ClassBook     WeaponClass = "book"
)

// Weapon is one entry of the Loot weapon list.
type Weapon struct {
	Index int
	Name  string
	Class WeaponClass
}

// weapons mirrors the Loot contract's weapon array. Order is significant.
var weapons = [...]Weapon{
	{0, "Warhammer", ClassBludgeon},
	{1, "Quarterstaff", ClassBludgeon},
	{2, "Maul", ClassBludgeon},
	{3, "Mace", ClassBludgeon},
	{4, "Club", ClassBludgeon},
	{5, "Katana", ClassBlade},
	{6, "Falchion", ClassBlade},
	{7, "Scimitar", ClassBlade},
	{8, "Long Sword", ClassBlade},
	{9, "Short Sword", ClassBlade},
	{10, "Ghost Wand", ClassWand},
	{11, "Grave Wand", ClassWand},
	{12, "Bone Wand", ClassWand},
	{13, "Wand", ClassWand},
	{14, "Grimoire", ClassBook},
	{15, "Chronicle", ClassBook},
	{16, "Tome", ClassBook},
	{17, "Book", ClassBook},
}

// WeaponPluckPrefix is the seed prefix Loot hashes to pick a bag's weapon
const WeaponPluckPrefix = "WEAPON"

// Weapons returns the Loot weapon list in contract order.
func Weapons() []Weapon {
	out := make([]Weapon, len(weapons))
	copy(out, weapons[:])
	return out
}

// WeaponByName looks a weapon up by its exact Loot name.
func WeaponByName(name string) (Weapon, bool) {
	for _, w := range weapons {
		if w.Name == name {
			return w, true
		}
	}
	return Weapon{}, false
}

// WeaponForLoot derives the weapon carried by a Loot bag.
func WeaponForLoot(id LootID) Weapon {
	return weapons[Pluck(WeaponPluckPrefix, int(id), len(weapons))]
}
