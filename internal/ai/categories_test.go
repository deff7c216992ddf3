package ai

import "testing"

func TestCategoriesKnown(t *testing.T) {
	cats := Categories()
	if len(cats) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if !ValidCategory(c.ID) {
			t.Fatalf("category %s has no instruction template", c.ID)
		}
		if PromptFor(c.ID) == "" {
			t.Fatalf("empty template for %s", c.ID)
		}
	}
}

func TestValidCategoryRejectsUnknown(t *testing.T) {
	if ValidCategory("sports") {
		t.Fatal("unknown category accepted")
	}
}

func TestPromptForFallsBack(t *testing.T) {
	if PromptFor("nope") != PromptFor(categories[0].ID) {
		t.Fatal("unknown IDs should fall back to the first category")
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0].ID = "mutated"
	if categories[0].ID == "mutated" {
		t.Fatal("callers must not be able to mutate the category list")
	}
}
