//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/obinnaokechukwu/sfgo"
	"github.com/obinnaokechukwu/sfgo/audio"
	"github.com/obinnaokechukwu/sfgo/graphics"
	"github.com/spf13/cobra"
)

func probeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Load a file through an input stream as texture, font and sound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sfgo.Init(); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			matched := false
			for _, p := range probers {
				if !sfgo.Available(p.module) {
					continue
				}
				if _, err := f.Seek(0, io.SeekStart); err != nil {
					return err
				}
				desc, err := p.probe(f)
				if err != nil {
					continue
				}
				matched = true
				fmt.Fprintf(out, "%-8s %s\n", p.name, desc)
			}
			if !matched {
				return fmt.Errorf("%s: not an image, font or sound CSFML can load", args[0])
			}
			return nil
		},
	}
}

type prober struct {
	name   string
	module sfgo.Module
	probe  func(io.ReadSeeker) (string, error)
}

var probers = []prober{
	{"texture", sfgo.ModuleGraphics, probeTexture},
	{"font", sfgo.ModuleGraphics, probeFont},
	{"sound", sfgo.ModuleAudio, probeSound},
}

func probeTexture(src io.ReadSeeker) (string, error) {
	tex, err := graphics.NewTextureFromStream(src)
	if err != nil {
		return "", err
	}
	defer tex.Close()
	limit, _ := graphics.MaximumSize()
	return fmt.Sprintf("loaded (max texture size %d)", limit), nil
}

func probeFont(src io.ReadSeeker) (string, error) {
	font, err := graphics.NewFontFromStream(src)
	if err != nil {
		return "", err
	}
	defer font.Close()
	family, err := font.Family()
	if err != nil {
		return "loaded (family unavailable)", nil
	}
	return fmt.Sprintf("family %q", family), nil
}

func probeSound(src io.ReadSeeker) (string, error) {
	buf, err := audio.NewSoundBufferFromStream(src)
	if err != nil {
		return "", err
	}
	defer buf.Close()

	samples := buf.Samples()
	var peak int16
	for _, s := range samples.All() {
		if s < 0 {
			s = -s
		}
		peak = max(peak, s)
	}
	return fmt.Sprintf("%d Hz, %d channels, %v, %d samples, peak %d",
		buf.SampleRate(), buf.ChannelCount(), buf.Duration(), samples.Len(), peak), nil
}
