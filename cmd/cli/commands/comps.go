package commands

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tacticshub/internal/board"
	"tacticshub/internal/hybrid"
	"tacticshub/pkg/models"
)

func (c *CLI) newCompsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comps",
		Short: "List, build, edit and delete team compositions",
	}
	cmd.AddCommand(
		c.newCompsListCmd(),
		c.newCompsShowCmd(),
		c.newCompsCreateCmd(),
		c.newCompsEditCmd(),
		c.newCompsDeleteCmd(),
	)
	return cmd
}

func (c *CLI) newCompsListCmd() *cobra.Command {
	var (
		user   string
		public bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List compositions grouped by rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comps, err := c.storage().GetCompositions(cmd.Context(), user, public)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), comps)
			}
			printGroups(cmd.OutOrStdout(), board.GroupByRating(comps))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner id (defaults to you when logged in)")
	cmd.Flags().BoolVar(&public, "public", false, "only public compositions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func (c *CLI) newCompsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a composition with its active traits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := c.storage()
			comp, err := find(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), board.Summarize(comp, store.GetAllGameData(cmd.Context())))
			return nil
		},
	}
}

// details are the descriptive fields shared by create and edit.
type details struct {
	name        string
	description string
	rating      string
	public      bool
}

func (d *details) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.name, "name", "", "composition name")
	cmd.Flags().StringVar(&d.description, "description", "", "free text description")
	cmd.Flags().StringVar(&d.rating, "rating", "", "rating: S, A, B or C")
	cmd.Flags().BoolVar(&d.public, "public", false, "share with everyone")
}

// apply copies the flags the user actually set onto comp.
func (d *details) apply(cmd *cobra.Command, comp *models.Composition) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		comp.Name = d.name
	}
	if flags.Changed("description") {
		comp.Description = d.description
	}
	if flags.Changed("rating") {
		comp.Rating = models.Rating(strings.ToUpper(strings.TrimSpace(d.rating)))
	}
	if flags.Changed("public") {
		comp.IsPublic = d.public
	}
}

func (c *CLI) newCompsCreateCmd() *cobra.Command {
	var (
		d     details
		units []string
		items []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build a composition hex by hex and save it",
		Example: `  tacticshub comps create --name "Arcana Reroll" --rating A \
    --unit 0=zoe --unit 3=ahri --item 3=deathcap`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := c.actor(cmd.Context())
			if err != nil {
				return err
			}

			b := board.NewBuilder(nil)
			for _, spec := range units {
				pos, unitID, err := parsePlacement(spec)
				if err != nil {
					return err
				}
				if err := b.Select(pos); err != nil {
					return fmt.Errorf("unit %s: %w", spec, err)
				}
				if err := b.PlaceSelected(unitID); err != nil {
					return fmt.Errorf("unit %s: %w", spec, err)
				}
			}
			for _, spec := range items {
				pos, itemID, err := parsePlacement(spec)
				if err != nil {
					return err
				}
				if err := b.Select(pos); err != nil {
					return fmt.Errorf("item %s: %w", spec, err)
				}
				if err := b.AddItem(itemID); err != nil {
					return fmt.Errorf("item %s: %w", spec, err)
				}
			}

			store := c.storage()
			if err := checkAgainstCatalog(cmd.Context(), store, b.Units); err != nil {
				return err
			}
			comp := models.Composition{Units: b.Units}
			d.apply(cmd, &comp)
			saved, err := store.SaveComposition(cmd.Context(), actor, comp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", saved.Name, saved.ID)
			return nil
		},
	}
	d.bind(cmd)
	cmd.Flags().StringArrayVar(&units, "unit", nil, "place a unit, as position=unitID (repeatable)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "give an item to the unit at a position, as position=itemID (repeatable)")
	return cmd
}

func (c *CLI) newCompsEditCmd() *cobra.Command {
	var (
		d         details
		units     []string
		items     []string
		removed   []int
		dropItems []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change one of your compositions",
		Long: `Change one of your compositions.

Board changes run in this order: --remove, --drop-item, --unit, --item.
Several --drop-item flags on one position see the indices left by the
previous drop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := c.actor(cmd.Context())
			if err != nil {
				return err
			}
			store := c.storage()
			comp, err := find(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}

			hexes := comp.Units
			for _, pos := range removed {
				hexes = board.Remove(hexes, pos)
			}
			for _, spec := range dropItems {
				pos, raw, err := parsePlacement(spec)
				if err != nil {
					return err
				}
				idx, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("drop-item %s: index must be a number", spec)
				}
				if hexes, err = board.RemoveItem(hexes, pos, idx); err != nil {
					return fmt.Errorf("drop-item %s: %w", spec, err)
				}
			}
			for _, spec := range units {
				pos, unitID, err := parsePlacement(spec)
				if err != nil {
					return err
				}
				if hexes, err = board.Place(hexes, unitID, pos); err != nil {
					return fmt.Errorf("unit %s: %w", spec, err)
				}
			}
			for _, spec := range items {
				pos, itemID, err := parsePlacement(spec)
				if err != nil {
					return err
				}
				if hexes, err = board.AddItem(hexes, pos, itemID); err != nil {
					return fmt.Errorf("item %s: %w", spec, err)
				}
			}

			if len(units) > 0 || len(items) > 0 {
				if err := checkAgainstCatalog(cmd.Context(), store, hexes); err != nil {
					return err
				}
			}
			comp.Units = hexes
			d.apply(cmd, &comp)
			updated, err := store.UpdateComposition(cmd.Context(), actor, comp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", updated.Name)
			return nil
		},
	}
	d.bind(cmd)
	cmd.Flags().StringArrayVar(&units, "unit", nil, "place a unit on an empty position, as position=unitID (repeatable)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "add an item, as position=itemID (repeatable)")
	cmd.Flags().IntSliceVar(&removed, "remove", nil, "clear a position with its items (repeatable)")
	cmd.Flags().StringArrayVar(&dropItems, "drop-item", nil, "drop an item, as position=index (repeatable)")
	return cmd
}

// parsePlacement splits "3=ahri" into its position and value.
func parsePlacement(spec string) (int, string, error) {
	posStr, value, ok := strings.Cut(spec, "=")
	if !ok || strings.TrimSpace(value) == "" {
		return 0, "", fmt.Errorf("%q: expected position=value", spec)
	}
	pos, err := strconv.Atoi(strings.TrimSpace(posStr))
	if err != nil {
		return 0, "", fmt.Errorf("%q: position must be a number", spec)
	}
	return pos, strings.TrimSpace(value), nil
}

// checkAgainstCatalog rejects unit and item ids the catalog does not know.
func checkAgainstCatalog(ctx context.Context, store *hybrid.Storage, units []models.BoardUnit) error {
	data := store.GetAllGameData(ctx)
	return board.CheckReferences(units, data.Units, data.Items)
}

func (c *CLI) newCompsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your compositions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := c.actor(cmd.Context())
			if err != nil {
				return err
			}
			store := c.storage()
			comp, err := find(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteComposition(cmd.Context(), actor, comp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", comp.Name)
			return nil
		},
	}
}

// find looks through the caller's compositions first, then the public ones.
func find(ctx context.Context, store *hybrid.Storage, id string) (models.Composition, error) {
	for _, public := range []bool{false, true} {
		comps, err := store.GetCompositions(ctx, "", public)
		if err != nil {
			return models.Composition{}, err
		}
		for _, comp := range comps {
			if comp.ID == id {
				return comp, nil
			}
		}
	}
	return models.Composition{}, fmt.Errorf("composition %s not found", id)
}

func (c *CLI) actor(ctx context.Context) (board.Actor, error) {
	token, err := requireToken(c.tokenPath)
	if err != nil {
		return board.Actor{}, err
	}
	var me authUser
	if err := c.api(token).Call(ctx, http.MethodGet, "auth/me", nil, &me); err != nil {
		return board.Actor{}, fmt.Errorf("who am i: %w", err)
	}
	return board.Actor{ID: me.ID, Admin: me.Role == "admin"}, nil
}
