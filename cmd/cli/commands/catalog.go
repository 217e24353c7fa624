package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tacticshub/internal/hybrid"
)

func (c *CLI) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print catalog collections, served from the local cache when fresh",
	}

	collections := []struct {
		name  string
		fetch func(cmd *cobra.Command) any
	}{
		{"units", func(cmd *cobra.Command) any { return c.storage().GetUnits(cmd.Context()) }},
		{"traits", func(cmd *cobra.Command) any { return c.storage().GetTraits(cmd.Context()) }},
		{"components", func(cmd *cobra.Command) any { return c.storage().GetComponents(cmd.Context()) }},
		{"items", func(cmd *cobra.Command) any { return c.storage().GetItems(cmd.Context()) }},
		{"all", func(cmd *cobra.Command) any { return c.storage().GetAllGameData(cmd.Context()) }},
	}
	for _, col := range collections {
		fetch := col.fetch
		cmd.AddCommand(&cobra.Command{
			Use:   col.name,
			Short: fmt.Sprintf("Print %s", col.name),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printJSON(cmd.OutOrStdout(), fetch(cmd))
			},
		})
	}
	cmd.AddCommand(c.newCatalogAddCmd(), c.newCatalogUpdateCmd(), c.newCatalogDeleteCmd())
	return cmd
}

type writeFunc func(ctx context.Context, s *hybrid.Storage, raw []byte) (any, error)

// decodeAnd turns a typed coordinator write into one that takes raw JSON.
func decodeAnd[T any](op func(*hybrid.Storage, context.Context, T) (*T, error)) writeFunc {
	return func(ctx context.Context, s *hybrid.Storage, raw []byte) (any, error) {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		return op(s, ctx, v)
	}
}

type catalogWriter struct {
	add    writeFunc
	update writeFunc
	remove func(*hybrid.Storage, context.Context, string) error
}

var catalogWriters = map[string]catalogWriter{
	"units":      {decodeAnd((*hybrid.Storage).SaveUnit), decodeAnd((*hybrid.Storage).UpdateUnit), (*hybrid.Storage).DeleteUnit},
	"traits":     {decodeAnd((*hybrid.Storage).SaveTrait), decodeAnd((*hybrid.Storage).UpdateTrait), (*hybrid.Storage).DeleteTrait},
	"components": {decodeAnd((*hybrid.Storage).SaveComponent), decodeAnd((*hybrid.Storage).UpdateComponent), (*hybrid.Storage).DeleteComponent},
	"items":      {decodeAnd((*hybrid.Storage).SaveItem), decodeAnd((*hybrid.Storage).UpdateItem), (*hybrid.Storage).DeleteItem},
}

func catalogKinds() []string {
	kinds := make([]string, 0, len(catalogWriters))
	for k := range catalogWriters {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func writerFor(kind string) (catalogWriter, error) {
	w, ok := catalogWriters[kind]
	if !ok {
		return catalogWriter{}, fmt.Errorf("unknown collection %q, want one of %s", kind, strings.Join(catalogKinds(), ", "))
	}
	return w, nil
}

// recordSource reads one JSON record from --data or --file ("-" is stdin).
type recordSource struct {
	data string
	file string
}

func (r *recordSource) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.data, "data", "", "record as inline JSON")
	cmd.Flags().StringVar(&r.file, "file", "", `read the record from a JSON file, "-" for stdin`)
}

func (r *recordSource) read(cmd *cobra.Command) ([]byte, error) {
	switch {
	case r.data != "" && r.file != "":
		return nil, errors.New("use either --data or --file")
	case r.data != "":
		return []byte(r.data), nil
	case r.file == "-":
		return io.ReadAll(cmd.InOrStdin())
	case r.file != "":
		return os.ReadFile(r.file)
	}
	return nil, errors.New("a record is required, pass --data or --file")
}

func (c *CLI) newCatalogAddCmd() *cobra.Command {
	var src recordSource
	cmd := &cobra.Command{
		Use:       "add <collection>",
		Short:     "Create a catalog record (admin)",
		Example:   `  tacticshub catalog add units --data '{"name":"Jinx","cost":3,"traits":["Rebel"]}'`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: catalogKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.writeRecord(cmd, args[0], &src, func(w catalogWriter) writeFunc { return w.add })
		},
	}
	src.bind(cmd)
	return cmd
}

func (c *CLI) newCatalogUpdateCmd() *cobra.Command {
	var src recordSource
	cmd := &cobra.Command{
		Use:       "update <collection>",
		Short:     "Replace a catalog record by id (admin)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: catalogKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.writeRecord(cmd, args[0], &src, func(w catalogWriter) writeFunc { return w.update })
		},
	}
	src.bind(cmd)
	return cmd
}

func (c *CLI) writeRecord(cmd *cobra.Command, kind string, src *recordSource, pick func(catalogWriter) writeFunc) error {
	w, err := writerFor(kind)
	if err != nil {
		return err
	}
	if _, err := requireToken(c.tokenPath); err != nil {
		return err
	}
	raw, err := src.read(cmd)
	if err != nil {
		return err
	}
	out, err := pick(w)(cmd.Context(), c.storage(), raw)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func (c *CLI) newCatalogDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a catalog record (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := writerFor(args[0])
			if err != nil {
				return err
			}
			if _, err := requireToken(c.tokenPath); err != nil {
				return err
			}
			if err := w.remove(c.storage(), cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", args[0], args[1])
			return nil
		},
	}
}

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the local catalog cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show freshness of every cached collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printStatus(cmd.OutOrStdout(), c.storage().CacheStatus())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Refetch every collection from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.storage().RefreshCache(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache refreshed")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.storage().ClearCache()
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	})
	return cmd
}
