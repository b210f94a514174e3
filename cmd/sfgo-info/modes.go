//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"fmt"

	"github.com/obinnaokechukwu/sfgo"
	"github.com/obinnaokechukwu/sfgo/window"
	"github.com/spf13/cobra"
)

func modesCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "modes",
		Short: "Print the desktop and fullscreen video modes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sfgo.Init(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if desktop, err := window.DesktopMode(); err == nil {
				fmt.Fprintf(out, "desktop: %v\n", desktop)
			} else {
				fmt.Fprintf(out, "desktop: unavailable (%v)\n", err)
			}

			modes, err := window.FullscreenModes()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "fullscreen: %d modes\n", len(modes))
			for i, m := range modes {
				if !all && i == 10 {
					fmt.Fprintf(out, "  ... %d more (use --all)\n", len(modes)-i)
					break
				}
				fmt.Fprintf(out, "  %v\n", m)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print every mode")
	return cmd
}
