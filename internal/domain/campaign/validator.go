package campaign

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Validator maps campaign names to ids for one tenant's active campaigns.
type Validator struct {
	byName  map[string]uuid.UUID
	allowed []string
}

func NewValidator(active []Campaign) *Validator {
	v := &Validator{byName: make(map[string]uuid.UUID, len(active))}
	for _, c := range active {
		if !c.IsActive {
			continue
		}
		key := normalizeName(c.Name)
		if _, dup := v.byName[key]; dup {
			continue
		}
		v.byName[key] = c.ID
		v.allowed = append(v.allowed, c.Name)
	}
	sort.Strings(v.allowed)
	return v
}

// Resolve maps name to a campaign id. Names match trimmed and case-insensitively;
// an unknown or inactive name is an error, never a default bucket.
func (v *Validator) Resolve(name string) (uuid.UUID, error) {
	id, ok := v.byName[normalizeName(name)]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrUnknownCampaign, name)
	}
	return id, nil
}

// AllowedNames lists the active campaign names, sorted.
func (v *Validator) AllowedNames() []string {
	return append([]string{}, v.allowed...)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
