package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sandeepkandula/blsync/sync"
	"github.com/spf13/cobra"
)

func newListCmd(config func() *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the objects mirrored under the prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config()
			if err := cfg.validateStore(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			dst, err := newDestination(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			objs, err := dst.List(cmd.Context())
			if err != nil {
				return err
			}
			return printObjects(cmd.OutOrStdout(), objs)
		},
	}
}

// printObjects writes one line per object: key, size, ETag, last modified.
func printObjects(w io.Writer, objs []sync.ObjectMeta) error {
	for _, obj := range objs {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			obj.Key,
			humanize.Bytes(uint64(obj.Size)),
			obj.ETag,
			obj.LastModified.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
