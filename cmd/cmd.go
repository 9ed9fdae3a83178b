package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/bloch"
)

const envPrefix = "BLOCH"

/*
NewRootCmd wires the command tree. Flags can also come from the environment
as BLOCH_FORMAT, BLOCH_TOLERANCE, BLOCH_WORKERS and so on.
*/
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := bloch.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "bloch",
		Short:         "Place qubit states on the Bloch sphere",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("format", "f", string(bloch.FormatText), "Output format, options: text, json, yaml")
	flags.Float64("tolerance", defaults.Tolerance, "Allowed drift of |alpha|^2 + |beta|^2 from 1")
	flags.IntP("workers", "w", defaults.Workers, "Workers used for batch conversion")
	flags.Duration("scheduling-timeout", defaults.SchedulingTimeout, "How long a conversion may wait for a worker")

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(newConvertCmd(v))
	rootCmd.AddCommand(newCatalogCmd(v))

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configFrom(v *viper.Viper) *bloch.Config {
	return &bloch.Config{
		Tolerance:         v.GetFloat64("tolerance"),
		Workers:           v.GetInt("workers"),
		SchedulingTimeout: v.GetDuration("scheduling-timeout"),
	}
}

func formatFrom(v *viper.Viper) bloch.Format {
	return bloch.Format(strings.ToLower(v.GetString("format")))
}
