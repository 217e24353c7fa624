package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"tacticshub/pkg/models"
)

// catalog-mirror serves a JSON seed file read-only under the same paths as
// the API server, so clients can run against a static snapshot.
func main() {
	dataPath := flag.String("data", "data/catalog.json", "JSON seed to serve")
	addr := flag.String("addr", ":9000", "listen address")
	flag.Parse()

	log.Printf("catalog-mirror serving %s on %s", *dataPath, *addr)
	log.Fatal(http.ListenAndServe(*addr, newRouter(*dataPath)))
}

func newRouter(dataPath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	serve := func(pick func(models.GameData) any) gin.HandlerFunc {
		return func(c *gin.Context) {
			// reread on every request so edits to the file show up live
			data, err := load(dataPath)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, pick(data))
		}
	}
	api.GET("/units", serve(func(d models.GameData) any { return nonNil(d.Units) }))
	api.GET("/traits", serve(func(d models.GameData) any { return nonNil(d.Traits) }))
	api.GET("/components", serve(func(d models.GameData) any { return nonNil(d.Components) }))
	api.GET("/items", serve(func(d models.GameData) any { return nonNil(d.Items) }))
	api.GET("/catalog", serve(func(d models.GameData) any { return d }))
	return r
}

func load(path string) (models.GameData, error) {
	var data models.GameData
	b, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return data, fmt.Errorf("%s invalid JSON: %w", path, err)
	}
	return data, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
