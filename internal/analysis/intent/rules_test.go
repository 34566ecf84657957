package intent

import "testing"

func TestMatchMenuKeywords(t *testing.T) {
	result, ok := Match("Quero ver o cardápio")
	if !ok {
		t.Fatal("expected menu rule to match")
	}
	if len(result.ActionCodes) != 1 || result.ActionCodes[0] != CodeMenuCategories {
		t.Fatalf("unexpected codes: %v", result.ActionCodes)
	}
	if !result.WaitForResponse {
		t.Fatal("menu browse should wait for a reply")
	}
	if result.Context != "menu_selection" {
		t.Fatalf("unexpected context: %s", result.Context)
	}
}

func TestMatchNearbyRequiresBothGroups(t *testing.T) {
	if _, ok := Match("tem algum restaurante bom?"); ok {
		t.Fatal("restaurante without proximity keyword should not match")
	}

	result, ok := Match("Tem restaurante perto de mim?")
	if !ok {
		t.Fatal("expected nearby rule to match")
	}
	if result.ActionCodes[0] != CodeNearbyRestaurants {
		t.Fatalf("unexpected codes: %v", result.ActionCodes)
	}
	if result.Context != "waiting_location_for_restaurants" {
		t.Fatalf("unexpected context: %s", result.Context)
	}
}

func TestMatchOrderPreservedOnOverlap(t *testing.T) {
	// Mentions both a nearby restaurant and the menu; the nearby rule is
	// earlier in the table and must win.
	result, ok := Match("quero o cardápio de um restaurante próximo")
	if !ok {
		t.Fatal("expected a match")
	}
	if result.ActionCodes[0] != CodeNearbyRestaurants {
		t.Fatalf("expected nearby rule to win, got %v", result.ActionCodes)
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	result, ok := Match("PROMOÇÃO de hoje?")
	if !ok {
		t.Fatal("expected promotions rule to match")
	}
	if result.ActionCodes[0] != CodePromotions {
		t.Fatalf("unexpected codes: %v", result.ActionCodes)
	}
	if result.WaitForResponse {
		t.Fatal("promotions listing should not wait for a reply")
	}
}

func TestMatchNoRule(t *testing.T) {
	if _, ok := Match("qual a capital da França?"); ok {
		t.Fatal("expected no rule match")
	}
	if _, ok := Match("   "); ok {
		t.Fatal("blank text should not match")
	}
}

func TestCatalogHasUniqueCodes(t *testing.T) {
	seen := make(map[int]bool)
	for _, spec := range Catalog() {
		if seen[spec.Code] {
			t.Fatalf("duplicate action code %d", spec.Code)
		}
		seen[spec.Code] = true
		if spec.Description == "" {
			t.Fatalf("action %d has no description", spec.Code)
		}
	}
}
