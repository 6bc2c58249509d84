package telemetry

import (
	"testing"

	"github.com/pthm-cable/beans/config"
)

func init() {
	config.MustInit("")
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_CombatSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Population: 50, Combats: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 50, Combats: 9})
	if !hasBookmark(bookmarks, BookmarkCombatSurge) {
		t.Error("expected combat_surge bookmark")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Population: 100})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 50})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}
}

func TestBookmarkDetector_PopulationBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Population: 8})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2400, Population: 30})
	if !hasBookmark(bookmarks, BookmarkPopulationBoom) {
		t.Error("expected population_boom bookmark")
	}
}

func TestBookmarkDetector_OneShotBookmarks(t *testing.T) {
	bd := NewBookmarkDetector(10)

	first := bd.Check(WindowStats{WindowEndTick: 600, Population: 20, TownCenters: 1})
	if !hasBookmark(first, BookmarkFirstTownCenter) {
		t.Error("expected first_town_center bookmark")
	}
	again := bd.Check(WindowStats{WindowEndTick: 1200, Population: 20, TownCenters: 2})
	if hasBookmark(again, BookmarkFirstTownCenter) {
		t.Error("first_town_center fired twice")
	}

	if got := bd.Check(WindowStats{WindowEndTick: 1800, Cocoons: 1}); hasBookmark(got, BookmarkExtinction) {
		t.Error("extinction fired with a cocoon still gestating")
	}
	if got := bd.Check(WindowStats{WindowEndTick: 2400}); !hasBookmark(got, BookmarkExtinction) {
		t.Error("expected extinction bookmark")
	}
	if got := bd.Check(WindowStats{WindowEndTick: 3000}); hasBookmark(got, BookmarkExtinction) {
		t.Error("extinction fired twice")
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 600), Population: 100})
		if hasBookmark(bookmarks, BookmarkStablePopulation) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("stable_population fired %d times, want once", fired)
	}
}
