package match

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed nicknames.yaml
var defaultNicknames []byte

type aliasFile struct {
	Groups   [][]string `yaml:"groups"`
	Cognates [][]string `yaml:"cognates"`
}

// Aliases maps first names to the nickname groups they belong to.
type Aliases struct {
	groups   map[string][]int
	cognates map[string][]int
}

// ParseAliases reads a YAML document with a top-level "groups" list of name lists
// and an optional "cognates" list in the same shape.
func ParseAliases(data []byte) (*Aliases, error) {
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse nickname table: %w", err)
	}
	return &Aliases{groups: indexGroups(f.Groups), cognates: indexGroups(f.Cognates)}, nil
}

func indexGroups(groups [][]string) map[string][]int {
	idx := make(map[string][]int)
	for i, g := range groups {
		for _, name := range g {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			idx[name] = append(idx[name], i)
		}
	}
	return idx
}

// LoadAliasesFile reads a nickname table from path.
func LoadAliasesFile(path string) (*Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read nickname table: %w", err)
	}
	return ParseAliases(data)
}

// DefaultAliases returns the embedded nickname table.
func DefaultAliases() *Aliases {
	a, err := ParseAliases(defaultNicknames)
	if err != nil {
		panic("embedded nickname table: " + err.Error())
	}
	return a
}

// Equivalent reports whether x and y are the same name or share a nickname group.
func (a *Aliases) Equivalent(x, y string) bool {
	if x == y {
		return true
	}
	if a == nil {
		return false
	}
	return shareGroup(a.groups, x, y)
}

// Related is Equivalent widened to cognates, e.g. "john" and "sean".
func (a *Aliases) Related(x, y string) bool {
	if a.Equivalent(x, y) {
		return true
	}
	return a != nil && shareGroup(a.cognates, x, y)
}

func shareGroup(idx map[string][]int, x, y string) bool {
	for _, gx := range idx[x] {
		for _, gy := range idx[y] {
			if gx == gy {
				return true
			}
		}
	}
	return false
}
