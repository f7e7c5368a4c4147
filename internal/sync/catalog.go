package sync

import (
	"sort"

	"github.com/dmhcommunity/beanbot/internal/models"
)

// BuildRoleCatalog returns the sorted display names of the guild's
// roles, excluding the implicit everyone role. The catalog is the
// dynamic column set for one sync; it is recomputed every run and never
// persisted. An empty catalog is valid.
func BuildRoleCatalog(roles []models.Role) []string {
	catalog := make([]string, 0, len(roles))
	for _, role := range roles {
		if role.Name == models.EveryoneRole {
			continue
		}
		catalog = append(catalog, role.Name)
	}
	sort.Strings(catalog)
	return catalog
}
