package tabview_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nao1215/tabview"
	"github.com/nao1215/tabview/domain/model"
)

// ExampleSession demonstrates loading a file, searching it and paging
// through the matching rows.
func ExampleSession() {
	tmpDir, err := os.MkdirTemp("", "tabview-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "cities.csv")
	data := "city,country\nTokyo,Japan\nOsaka,Japan\nParis,France\nKyoto,Japan\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		log.Fatal(err)
	}

	session := tabview.NewSession(nil, 2, nil)
	if _, err := session.Load(context.Background(), path, tabview.NewLoadOptions()); err != nil {
		log.Fatal(err)
	}

	session.Search("japan")
	for {
		page := session.CurrentPage()
		fmt.Println(page)
		for _, row := range page.Rows {
			fmt.Printf("  %d: %v\n", row.Index, row.Cells)
		}
		if !session.Next() {
			break
		}
	}

	// Output:
	// Rows 1-2 of 3 (page 1/2), 4 total, filter "japan"
	//   0: [Tokyo Japan]
	//   1: [Osaka Japan]
	// Rows 3-3 of 3 (page 2/2), 4 total, filter "japan"
	//   3: [Kyoto Japan]
}

// ExampleCompareSchemas demonstrates comparing two serialized schemas.
// Dropping a column does not make the remaining columns count as moved.
func ExampleCompareSchemas() {
	before := &tabview.SerializedSchema{
		Schema: []tabview.ColumnSchema{
			{Name: "id", NativeType: model.NativeInt64, SemanticType: model.SemanticInteger},
			{Name: "legacy", NativeType: model.NativeObject, SemanticType: model.SemanticString},
			{Name: "price", NativeType: model.NativeInt64, SemanticType: model.SemanticInteger},
		},
		TotalColumns: 3,
	}
	after := &tabview.SerializedSchema{
		Schema: []tabview.ColumnSchema{
			{Name: "id", NativeType: model.NativeInt64, SemanticType: model.SemanticInteger},
			{Name: "price", NativeType: model.NativeFloat64, SemanticType: model.SemanticDouble},
		},
		TotalColumns: 2,
	}

	diff := tabview.CompareSchemas(before, after)
	fmt.Print(diff.Report(before, after))

	// Output:
	// Schemas differ: 2 difference(s) found.
	//
	// File 1 columns: 3
	// File 2 columns: 2
	//
	// --- Only in first file (1) ---
	// legacy
	//
	// --- Type mismatches (1) ---
	// price: integer vs double
}
