package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/bloch"
	"sigs.k8s.io/yaml"
)

type catalogRecord struct {
	Name  string  `json:"name"`
	State string  `json:"state"`
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
	R     float64 `json:"r"`
}

func newCatalogCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [NAME...]",
		Short: "List the named textbook states and their coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			states := bloch.Catalog()

			if len(args) > 0 {
				states = states[:0]

				for _, name := range args {
					state, ok := bloch.Lookup(name)
					if !ok {
						return fmt.Errorf("unknown state %q", name)
					}
					states = append(states, state)
				}
			}

			records := make([]catalogRecord, 0, len(states))

			for _, state := range states {
				coord := state.Qubit.Spherical()
				records = append(records, catalogRecord{
					Name:  state.Name,
					State: state.Label,
					Theta: coord.Theta,
					Phi:   coord.Phi,
					R:     coord.R,
				})
			}

			return writeCatalog(cmd.OutOrStdout(), formatFrom(v), records)
		},
	}
}

func writeCatalog(w io.Writer, format bloch.Format, records []catalogRecord) error {
	switch format {
	case bloch.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case bloch.FormatYAML:
		buf, err := yaml.Marshal(records)
		if err != nil {
			return err
		}
		_, err = w.Write(buf)
		return err
	case bloch.FormatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSTATE\tTHETA\tPHI\tR")

		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%.6f\t%.6f\t%g\n", r.Name, r.State, r.Theta, r.Phi, r.R)
		}

		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
