package detect

import (
	"reflect"
	"testing"
)

func TestExtractKeywordsFiltersAndRanks(t *testing.T) {
	got := ExtractKeywords("Daily checkout errors: checkout retries for the EU region")
	// "daily", "the", "for" are stop words; "eu" is too short;
	// "checkout" appears twice so it ranks first, ties alphabetical
	want := []string{"checkout", "errors", "region", "retries"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}
}

func TestExtractKeywordsCaps(t *testing.T) {
	got := ExtractKeywords("alpha bravo charlie delta echos foxtrot golfs hotel india juliet kilos limas")
	if len(got) != maxKeywords {
		t.Fatalf("len = %d, want %d", len(got), maxKeywords)
	}
}

func TestExtractKeywordsEmpty(t *testing.T) {
	if got := ExtractKeywords("a an it"); got != nil {
		t.Fatalf("keywords = %v, want nil", got)
	}
}
