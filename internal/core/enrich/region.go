package enrich

type regionBound struct {
	maxID int
	name  string
}

// regions are ordered by ascending inclusive upper bound.
var regions = []regionBound{
	{151, "Kanto"},
	{251, "Johto"},
	{386, "Hoenn"},
	{493, "Sinnoh"},
	{649, "Unova"},
	{721, "Kalos"},
	{809, "Alola"},
	{905, "Galar"},
}

const lastRegion = "Paldea"

// Region returns the home region of a national dex id. Ids above the last
// bound belong to the newest region.
func Region(id int) string {
	for _, r := range regions {
		if id <= r.maxID {
			return r.name
		}
	}
	return lastRegion
}
