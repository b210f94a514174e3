//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"fmt"
	"time"

	"github.com/obinnaokechukwu/sfgo"
	"github.com/obinnaokechukwu/sfgo/mainthread"
	"github.com/obinnaokechukwu/sfgo/window"
	"github.com/spf13/cobra"
)

func windowCommand() *cobra.Command {
	var seconds float64
	var width, height uint32
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Open a test window on the main thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sfgo.Init(); err != nil {
				return err
			}
			var err error
			mainthread.Call(func() {
				err = showWindow(window.NewVideoMode(width, height), time.Duration(seconds*float64(time.Second)))
			})
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "window closed")
			}
			return err
		},
	}
	cmd.Flags().Float64Var(&seconds, "seconds", 3, "how long to keep the window open")
	cmd.Flags().Uint32Var(&width, "width", 640, "window width")
	cmd.Flags().Uint32Var(&height, "height", 480, "window height")
	return cmd
}

func showWindow(mode window.VideoMode, d time.Duration) error {
	w, err := window.New(mode, "sfgo-info", window.StyleDefault)
	if err != nil {
		return err
	}
	defer w.Destroy()

	w.SetFramerateLimit(60)
	deadline := time.Now().Add(d)
	for w.IsOpen() && time.Now().Before(deadline) {
		for {
			ev, ok := w.PollEvent()
			if !ok {
				break
			}
			if ev == window.EventClosed {
				w.Close()
			}
		}
		w.Display()
	}
	return nil
}
