package compositions

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tacticshub/internal/auth"
	"tacticshub/internal/board"
	"tacticshub/internal/catalog"
	synchub "tacticshub/internal/sync"
	"tacticshub/pkg/models"
)

type Handler struct {
	Repo    *Repo
	Catalog *catalog.Repo // optional; enables unit and item reference checks
	Hub     *synchub.Hub
	logger  *log.Logger
}

func NewHandler(repo *Repo, cat *catalog.Repo, hub *synchub.Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{Repo: repo, Catalog: cat, Hub: hub, logger: logger}
}

// RegisterRoutes mounts the composition API. optional runs before reads,
// required before writes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optional, required gin.HandlerFunc) {
	rg.GET("/compositions", optional, h.list)
	rg.POST("/compositions", required, h.create)
	rg.PUT("/compositions", required, h.update)
	rg.DELETE("/compositions", required, h.remove)
}

func actorFrom(c *gin.Context) board.Actor {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		return board.Actor{}
	}
	return board.Actor{ID: claims.UserID, Admin: claims.IsAdmin()}
}

func (h *Handler) list(c *gin.Context) {
	publicOnly, _ := strconv.ParseBool(c.Query("public"))
	userID := strings.TrimSpace(c.Query("userId"))
	actor := actorFrom(c)

	q := Query{UserID: userID, PublicOnly: publicOnly}
	if !publicOnly {
		switch {
		case userID == "" && actor.ID == "":
			q.PublicOnly = true
		case userID == "":
			q.UserID = actor.ID
		}
	}

	comps, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		h.logger.Printf("[compositions] list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	// other users only ever see what they published
	if !q.PublicOnly && !actor.Admin && q.UserID != actor.ID {
		visible := comps[:0]
		for _, comp := range comps {
			if comp.IsPublic {
				visible = append(visible, comp)
			}
		}
		comps = visible
	}
	c.JSON(http.StatusOK, comps)
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var comp models.Composition
	if err := c.ShouldBindJSON(&comp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	now := time.Now().UTC()
	comp.ID = uuid.NewString()
	comp.UserID = claims.UserID
	comp.Author = claims.Username
	comp.CreatedAt = now
	comp.UpdatedAt = now

	if !h.validate(c, comp) {
		return
	}
	if err := h.Repo.Create(c.Request.Context(), comp); err != nil {
		h.logger.Printf("[compositions] create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.publish(synchub.EventCompositionUpdate, comp)
	c.JSON(http.StatusCreated, comp)
}

func (h *Handler) update(c *gin.Context) {
	var patch models.CompositionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if patch.ID == "" {
		patch.ID = strings.TrimSpace(c.Query("id"))
	}
	if patch.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	existing, ok := h.load(c, patch.ID)
	if !ok {
		return
	}

	updated := patch.Apply(*existing)
	updated.UpdatedAt = time.Now().UTC()
	if !h.validate(c, updated) {
		return
	}

	found, err := h.Repo.Update(c.Request.Context(), updated)
	if err != nil {
		h.logger.Printf("[compositions] update %s: %v", updated.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.publish(synchub.EventCompositionUpdate, updated)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) remove(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	existing, ok := h.load(c, id)
	if !ok {
		return
	}

	found, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Printf("[compositions] delete %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.publish(synchub.EventCompositionDelete, *existing)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// load fetches a composition the caller may edit, answering the request
// itself when that is not possible.
func (h *Handler) load(c *gin.Context, id string) (*models.Composition, bool) {
	existing, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Printf("[compositions] get %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return nil, false
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	if !board.CanEdit(actorFrom(c), *existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": board.ErrForbidden.Error()})
		return nil, false
	}
	return existing, true
}

func (h *Handler) validate(c *gin.Context, comp models.Composition) bool {
	if err := board.ValidateForSave(comp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if h.Catalog == nil {
		return true
	}

	ctx := c.Request.Context()
	units, err := h.Catalog.ListUnits(ctx)
	if err == nil {
		var items []models.Item
		if items, err = h.Catalog.ListItems(ctx); err == nil {
			err = board.CheckReferences(comp.Units, units, items)
		}
	}
	switch {
	case err == nil:
		return true
	case errors.Is(err, board.ErrUnknownUnit), errors.Is(err, board.ErrUnknownItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Printf("[compositions] load catalog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
	}
	return false
}

func (h *Handler) publish(typ string, comp models.Composition) {
	if h.Hub == nil {
		return
	}
	ev := synchub.CompositionEvent{
		Type:          typ,
		CompositionID: comp.ID,
		UserID:        comp.UserID,
		IsPublic:      comp.IsPublic,
		At:            time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}
