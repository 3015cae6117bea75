package types

import "strings"

// Deployable is static reference data for a placeable unit or spell.
// Counts live server-side; this catalog only describes the types.
type Deployable struct {
	Name     string
	Class    string // "unit" | "spell"
	Portrait string
	Housing  int // supply cost per placement
}

var catalog = []Deployable{
	{Name: "Archer", Class: "unit", Portrait: "archer.png", Housing: 1},
	{Name: "Footman", Class: "unit", Portrait: "footman.png", Housing: 1},
	{Name: "Sapper", Class: "unit", Portrait: "sapper.png", Housing: 2},
	{Name: "Gargoyle", Class: "unit", Portrait: "gargoyle.png", Housing: 2},
	{Name: "Ogre", Class: "unit", Portrait: "ogre.png", Housing: 5},
	{Name: "Fireball", Class: "spell", Portrait: "fireball.png", Housing: 0},
	{Name: "Frost Nova", Class: "spell", Portrait: "frost_nova.png", Housing: 0},
}

// Catalog returns the deployable catalog in presentation order.
func Catalog() []Deployable {
	out := make([]Deployable, len(catalog))
	copy(out, catalog)
	return out
}

// ByName resolves a deployable case-insensitively.
func ByName(name string) (Deployable, bool) {
	for _, d := range catalog {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Deployable{}, false
}

// OrderIndex gives the catalog position used to keep the selection bar
// stable across snapshot rebuilds; unknown names sort last.
func OrderIndex(name string) int {
	for i, d := range catalog {
		if strings.EqualFold(d.Name, name) {
			return i
		}
	}
	return len(catalog)
}
