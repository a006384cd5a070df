package assets

import (
	"regexp"
	"strings"
	"testing"
)

func TestUpsertQueryReplacesEveryColumn(t *testing.T) {
	insert := regexp.MustCompile(`INSERT INTO assets\(([^)]*)\)`).FindStringSubmatch(upsertQuery)
	if insert == nil {
		t.Fatalf("no column list in %q", upsertQuery)
	}

	columns := strings.Split(insert[1], ",")
	if len(columns) != len(upsertArgs(NewAsset("a.txt", "text/plain"))) {
		t.Fatalf("columns %v do not line up with upsert args", columns)
	}

	for _, col := range columns {
		col = strings.TrimSpace(col)
		if col == "id" {
			continue
		}
		if !strings.Contains(upsertQuery, col+" = EXCLUDED."+col) {
			t.Errorf("conflict branch does not update %s", col)
		}
	}
}
