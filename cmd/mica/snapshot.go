package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mica/internal/smir"
)

var snapshotHoles bool

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotHoles, "holes", false, "highlight uninitialized bytes")
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file>",
	Short: "Inspect an exported allocation snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		snap, err := smir.DecodeSnapshot(f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		heading := color.New(color.FgCyan, color.Bold)
		fmt.Fprintf(out, "%s %d\n", heading.Sprint("allocations:"), len(snap.Allocations))
		for i := range snap.Allocations {
			printAllocation(out, i+1, &snap.Allocations[i])
		}
		return nil
	},
}

func printAllocation(out io.Writer, id int, a *smir.Allocation) {
	mut := "const"
	if a.Mutable {
		mut = "mut"
	}
	fmt.Fprintf(out, "\nalloc#%d: %d bytes, align %d, %s\n", id, a.Size(), a.Align, mut)

	hole := color.New(color.FgRed)
	var sb strings.Builder
	for i, b := range a.Bytes {
		if i > 0 && i%16 == 0 {
			sb.WriteByte('\n')
		}
		switch {
		case b.Set:
			fmt.Fprintf(&sb, "%02x ", b.Val)
		case snapshotHoles:
			sb.WriteString(hole.Sprint("??") + " ")
		default:
			sb.WriteString(".. ")
		}
	}
	if sb.Len() > 0 {
		fmt.Fprintln(out, sb.String())
	}

	for _, p := range a.Provenance {
		fmt.Fprintf(out, "  +%d -> alloc#%d\n", p.Offset, p.Alloc)
	}
}
