package catalog

import (
	"net/url"
	"strconv"
)

const (
	PokemonPath = "/pokemon/"
	TypePath    = "/type/"
)

func pokemonPath(id int) string {
	return PokemonPath + strconv.Itoa(id)
}

func typePath(name string) string {
	return TypePath + url.PathEscape(name)
}
