package sync

import (
	"reflect"
	"testing"

	"github.com/dmhcommunity/beanbot/internal/models"
)

func TestBuildRoleCatalogExcludesEveryoneAndSorts(t *testing.T) {
	roles := []models.Role{
		{ID: "3", Name: "Member", Position: 1},
		{ID: "1", Name: models.EveryoneRole, Position: 0},
		{ID: "2", Name: "Admin", Position: 5},
		{ID: "4", Name: "Builder", Position: 2},
	}

	catalog := BuildRoleCatalog(roles)
	want := []string{"Admin", "Builder", "Member"}
	if !reflect.DeepEqual(catalog, want) {
		t.Fatalf("expected %v, got %v", want, catalog)
	}
}

func TestBuildRoleCatalogOrderIndependent(t *testing.T) {
	roles := []models.Role{
		{ID: "1", Name: "Zulu"},
		{ID: "2", Name: "Alpha"},
		{ID: "3", Name: "Mike"},
	}
	shuffled := []models.Role{roles[2], roles[0], roles[1]}

	if !reflect.DeepEqual(BuildRoleCatalog(roles), BuildRoleCatalog(shuffled)) {
		t.Fatalf("catalog should not depend on input order")
	}
}

func TestBuildRoleCatalogEmpty(t *testing.T) {
	if got := BuildRoleCatalog(nil); len(got) != 0 {
		t.Fatalf("expected empty catalog, got %v", got)
	}
	only := []models.Role{{ID: "1", Name: models.EveryoneRole}}
	if got := BuildRoleCatalog(only); len(got) != 0 {
		t.Fatalf("expected empty catalog for everyone-only guild, got %v", got)
	}
}
