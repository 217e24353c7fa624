package catalog

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	synchub "tacticshub/internal/sync"
	"tacticshub/pkg/models"
)

type Handler struct {
	Repo   *Repo
	Hub    *synchub.Hub
	logger *log.Logger
}

func NewHandler(repo *Repo, hub *synchub.Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{Repo: repo, Hub: hub, logger: logger}
}

// resource binds one catalog collection to its repo calls.
type resource[T interface{ Validate() error }] struct {
	h      *Handler
	name   string
	idOf   func(*T) *string
	list   func(context.Context) ([]T, error)
	create func(context.Context, T) error
	update func(context.Context, T) (bool, error)
	get    func(context.Context, string) (*T, error)
}

// RegisterRoutes mounts GET as public and runs guard before every write.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	mount(rg, guard, resource[models.Unit]{
		h: h, name: "units",
		idOf:   func(u *models.Unit) *string { return &u.ID },
		list:   h.Repo.ListUnits,
		create: h.Repo.CreateUnit,
		update: h.Repo.UpdateUnit,
		get:    h.Repo.GetUnit,
	})
	mount(rg, guard, resource[models.Trait]{
		h: h, name: "traits",
		idOf:   func(t *models.Trait) *string { return &t.ID },
		list:   h.Repo.ListTraits,
		create: h.Repo.CreateTrait,
		update: h.Repo.UpdateTrait,
		get:    h.Repo.GetTrait,
	})
	mount(rg, guard, resource[models.Component]{
		h: h, name: "components",
		idOf:   func(c *models.Component) *string { return &c.ID },
		list:   h.Repo.ListComponents,
		create: h.Repo.CreateComponent,
		update: h.Repo.UpdateComponent,
		get:    h.Repo.GetComponent,
	})
	mount(rg, guard, resource[models.Item]{
		h: h, name: "items",
		idOf:   func(i *models.Item) *string { return &i.ID },
		list:   h.Repo.ListItems,
		create: h.Repo.CreateItem,
		update: h.Repo.UpdateItem,
		get:    h.Repo.GetItem,
	})
	rg.GET("/catalog", h.snapshot)
}

func mount[T interface{ Validate() error }](rg *gin.RouterGroup, guard []gin.HandlerFunc, res resource[T]) {
	path := "/" + res.name
	rg.GET(path, res.listAll)
	rg.POST(path, append(append([]gin.HandlerFunc{}, guard...), res.createOne)...)
	rg.PUT(path, append(append([]gin.HandlerFunc{}, guard...), res.updateOne)...)
	rg.DELETE(path, append(append([]gin.HandlerFunc{}, guard...), res.deleteOne)...)
}

func (res resource[T]) listAll(c *gin.Context) {
	out, err := res.list(c.Request.Context())
	if err != nil {
		res.h.logger.Printf("[catalog] list %s: %v", res.name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	writeTagged(c, out)
}

func (res resource[T]) createOne(c *gin.Context) {
	var v T
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	id := res.idOf(&v)
	*id = strings.TrimSpace(*id)
	if *id == "" {
		*id = uuid.NewString()
	}
	if err := v.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if existing, err := res.get(ctx, *id); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "id already exists"})
		return
	}
	if err := res.create(ctx, v); err != nil {
		res.h.logger.Printf("[catalog] create %s: %v", res.name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	res.h.publish(synchub.EventCatalogUpdate, res.name, *id)
	c.JSON(http.StatusCreated, v)
}

func (res resource[T]) updateOne(c *gin.Context) {
	var v T
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	id := res.idOf(&v)
	if *id == "" {
		*id = strings.TrimSpace(c.Query("id"))
	}
	if err := v.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := res.update(c.Request.Context(), v)
	if err != nil {
		res.h.logger.Printf("[catalog] update %s: %v", res.name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	res.h.publish(synchub.EventCatalogUpdate, res.name, *id)
	c.JSON(http.StatusOK, v)
}

func (res resource[T]) deleteOne(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	ok, err := res.h.Repo.Delete(c.Request.Context(), res.name, id)
	if err != nil {
		res.h.logger.Printf("[catalog] delete %s: %v", res.name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	res.h.publish(synchub.EventCatalogDelete, res.name, id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) snapshot(c *gin.Context) {
	data, err := h.Repo.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Printf("[catalog] snapshot: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	writeTagged(c, data)
}

func (h *Handler) publish(typ, collection, id string) {
	if h.Hub == nil {
		return
	}
	ev := synchub.CatalogEvent{
		Type:       typ,
		Collection: collection,
		ID:         id,
		At:         time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}
