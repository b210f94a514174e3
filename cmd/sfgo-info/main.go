//go:build !ios && !android && (amd64 || arm64)

// sfgo-info reports which CSFML libraries sfgo finds and what they can do.
//
// Usage:
//
//	sfgo-info libs
//	sfgo-info modes
//	sfgo-info probe <file>
//	sfgo-info window --seconds 3
//	sfgo-info metrics --listen :9090
//
// Every persistent flag can also come from an SFGO_* environment variable
// (SFGO_LIB_DIR, SFGO_SHIM_DIR, SFGO_VERBOSE) or from a --config file.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/obinnaokechukwu/sfgo"
	"github.com/obinnaokechukwu/sfgo/internal/bindings"
	"github.com/obinnaokechukwu/sfgo/internal/shim"
	"github.com/obinnaokechukwu/sfgo/mainthread"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	code := 0
	mainthread.Run(func() {
		if err := newRootCommand().Execute(); err != nil {
			code = 1
		}
	})
	os.Exit(code)
}

// newRootCommand builds the command tree. Persistent settings resolve in
// the order flag, SFGO_* environment variable, then the --config file.
func newRootCommand() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:          "sfgo-info",
		Short:        "Inspect the CSFML installation used by sfgo",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(v)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolP("verbose", "v", false, "log library loading and resource lifetimes")
	flags.String("lib-dir", "", "directory searched first for CSFML libraries")
	flags.String("shim-dir", "", "directory searched for the sfshim helper")
	flags.String("config", "", "YAML or TOML file holding any of the settings above")

	v.SetEnvPrefix("SFGO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	root.AddCommand(libsCommand(), modesCommand(), probeCommand(), windowCommand(), metricsCommand())
	return root
}

func setup(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if v.GetBool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		sfgo.SetLogger(logger)
	}
	// The loaders read these on first use, which is after setup.
	for key, env := range map[string]string{
		"lib-dir":  bindings.LibDirEnv,
		"shim-dir": shim.DirEnv,
	} {
		if dir := v.GetString(key); dir != "" {
			if err := os.Setenv(env, dir); err != nil {
				return err
			}
		}
	}
	return nil
}

func libsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "libs",
		Short: "List the CSFML libraries and the sfshim helper",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := sfgo.Init()
			printStatus(cmd.OutOrStdout(), sfgo.CurrentStatus())
			return err
		},
	}
}
