package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	folioerrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/contact"
	"github.com/vango-dev/folio/pkg/fieldstore"
)

func storeCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect persisted contact form values",
		Long: `Inspect and clear the in-progress contact form values kept for a
visitor. The visitor id is the value of the folio_visitor cookie.`,
	}
	cmd.AddCommand(storeShowCmd(flags), storeClearCmd(flags))
	return cmd
}

func storeShowCmd(flags *globalFlags) *cobra.Command {
	var visitor string

	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print the values stored for a visitor",
		Example: `  folio store show --visitor=6f1c1f8e-0f4e-4c69-9d43-6b1f3f4e2a10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBucket(cmd.Context(), flags, visitor, func(ctx context.Context, b *fieldstore.Bucket) error {
				values, err := b.List(ctx)
				if err != nil {
					return folioerrors.New(folioerrors.CodeStoreFailed).Wrap(err)
				}
				out := cmd.OutOrStdout()
				if len(values) == 0 {
					fmt.Fprintf(out, "no values stored for %s\n", visitor)
					return nil
				}
				keys := make([]string, 0, len(values))
				for k := range values {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "%-14s %q\n", k, values[k])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&visitor, "visitor", "", "Visitor id (folio_visitor cookie)")
	return cmd
}

func storeClearCmd(flags *globalFlags) *cobra.Command {
	var visitor string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the values stored for a visitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBucket(cmd.Context(), flags, visitor, func(ctx context.Context, b *fieldstore.Bucket) error {
				if err := b.Delete(ctx, contact.StorageKeys()...); err != nil {
					return folioerrors.New(folioerrors.CodeStoreFailed).Wrap(err)
				}
				success(cmd.OutOrStdout(), "Cleared form values for %s", visitor)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&visitor, "visitor", "", "Visitor id (folio_visitor cookie)")
	return cmd
}

// withBucket opens the configured store and runs fn on the visitor's bucket.
func withBucket(ctx context.Context, flags *globalFlags, visitor string, fn func(context.Context, *fieldstore.Bucket) error) error {
	if visitor == "" {
		return folioerrors.New(folioerrors.CodeMissingFlag).
			WithDetail("--visitor is required")
	}
	if _, err := uuid.Parse(visitor); err != nil {
		return folioerrors.New(folioerrors.CodeMissingFlag).
			WithDetailf("--visitor %q is not a UUID", visitor)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := fieldstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return folioerrors.New(folioerrors.CodeStoreOpen).
			WithDetail(cfg.Store.Driver).
			Wrap(err)
	}
	defer store.Close()

	return fn(ctx, fieldstore.NewBucket(store, visitor))
}
