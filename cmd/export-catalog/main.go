package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tacticshub/internal/catalog"
	"tacticshub/internal/compositions"
	"tacticshub/pkg/database"
	"tacticshub/pkg/models"
)

func main() {
	var (
		seedOut  = flag.String("out", "data/catalog.json", "output JSON seed path")
		unitsOut = flag.String("units", "", "optional units CSV path")
		compsOut = flag.String("comps", "", "optional compositions CSV path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	data, err := catalog.NewRepo(db).Snapshot(ctx)
	if err != nil {
		log.Fatalf("snapshot failed: %v", err)
	}
	if err := writeSeed(*seedOut, data); err != nil {
		log.Fatalf("write seed failed: %v", err)
	}
	log.Printf("exported %d units, %d traits, %d components, %d items to %s",
		len(data.Units), len(data.Traits), len(data.Components), len(data.Items), *seedOut)

	if *unitsOut != "" {
		if err := writeUnitsCSV(*unitsOut, data.Units); err != nil {
			log.Fatalf("export units failed: %v", err)
		}
		log.Printf("exported units to %s", *unitsOut)
	}

	if *compsOut != "" {
		comps, err := compositions.NewRepo(db).List(ctx, compositions.Query{})
		if err != nil {
			log.Fatalf("list compositions failed: %v", err)
		}
		if err := writeCompositionsCSV(*compsOut, comps); err != nil {
			log.Fatalf("export compositions failed: %v", err)
		}
		log.Printf("exported %d compositions to %s", len(comps), *compsOut)
	}
}

func writeSeed(path string, data models.GameData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// writeUnitsCSV uses the column layout import-catalog reads back.
func writeUnitsCSV(path string, units []models.Unit) error {
	return writeCSV(path, []string{"id", "name", "cost", "traits", "image"}, len(units), func(i int) []string {
		u := units[i]
		return []string{u.ID, u.Name, strconv.Itoa(u.Cost), strings.Join(u.Traits, "|"), u.Image}
	})
}

func writeCompositionsCSV(path string, comps []models.Composition) error {
	header := []string{"id", "user_id", "author", "name", "rating", "is_public", "units", "updated_at"}
	return writeCSV(path, header, len(comps), func(i int) []string {
		c := comps[i]
		ids := make([]string, 0, len(c.Units))
		for _, bu := range c.Units {
			ids = append(ids, bu.UnitID)
		}
		return []string{
			c.ID,
			c.UserID,
			c.Author,
			c.Name,
			string(c.Rating),
			strconv.FormatBool(c.IsPublic),
			strings.Join(ids, "|"),
			c.UpdatedAt.UTC().Format(time.RFC3339),
		}
	})
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
