package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tacticshub/internal/catalog"
	"tacticshub/pkg/database"
	"tacticshub/pkg/models"
)

func main() {
	var (
		seedIn  = flag.String("seed", "data/catalog.json", "JSON or YAML seed with units, traits, components and items")
		unitsIn = flag.String("units", "", "optional CSV of units (id,name,cost,traits with traits separated by |)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}
	repo := catalog.NewRepo(db)

	data, err := readSeed(*seedIn)
	if err != nil {
		log.Fatalf("read seed failed: %v", err)
	}
	if *unitsIn != "" {
		extra, err := readUnitsCSV(*unitsIn)
		if err != nil {
			log.Fatalf("read units csv failed: %v", err)
		}
		data.Units = append(data.Units, extra...)
	}

	n, err := importAll(ctx, repo, data)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("imported %d catalog records from %s", n, *seedIn)
}

// readSeed decodes a JSON seed, or YAML when the file ends in .yaml/.yml.
func readSeed(path string) (models.GameData, error) {
	var data models.GameData
	b, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &data)
	default:
		err = json.Unmarshal(b, &data)
	}
	if err != nil {
		return data, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}

// importAll upserts every record. Invalid records abort the import so a bad
// seed never half-lands.
func importAll(ctx context.Context, repo *catalog.Repo, data models.GameData) (int, error) {
	n := 0
	for _, u := range data.Units {
		if err := upsert(ctx, u, repo.UpdateUnit, repo.CreateUnit); err != nil {
			return n, err
		}
		n++
	}
	for _, t := range data.Traits {
		if err := upsert(ctx, t, repo.UpdateTrait, repo.CreateTrait); err != nil {
			return n, err
		}
		n++
	}
	for _, c := range data.Components {
		if err := upsert(ctx, c, repo.UpdateComponent, repo.CreateComponent); err != nil {
			return n, err
		}
		n++
	}
	for _, it := range data.Items {
		if err := upsert(ctx, it, repo.UpdateItem, repo.CreateItem); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func upsert[T interface{ Validate() error }](
	ctx context.Context,
	v T,
	update func(context.Context, T) (bool, error),
	create func(context.Context, T) error,
) error {
	if err := v.Validate(); err != nil {
		return err
	}
	ok, err := update(ctx, v)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return create(ctx, v)
}

func readUnitsCSV(path string) ([]models.Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var out []models.Unit
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		id := valueAt(header, row, "id")
		if id == "" {
			continue
		}
		cost, err := strconv.Atoi(valueAt(header, row, "cost"))
		if err != nil {
			return nil, fmt.Errorf("parse cost for %s: %w", id, err)
		}
		u := models.Unit{
			ID:    id,
			Name:  valueAt(header, row, "name"),
			Cost:  cost,
			Image: valueAt(header, row, "image"),
		}
		for _, t := range strings.Split(valueAt(header, row, "traits"), "|") {
			if t = strings.TrimSpace(t); t != "" {
				u.Traits = append(u.Traits, t)
			}
		}
		out = append(out, u)
	}
	return out, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
