package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/export"
	"github.com/mastercactapus/autonpath/route"
	"github.com/spf13/cobra"
)

var (
	inspectX       float64
	inspectY       float64
	inspectHeading float64
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <export.txt>",
	Short: "Dry-run an exported route and summarize where it ends up",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Float64Var(&inspectX, "x", 0, "Start X in inches")
	inspectCmd.Flags().Float64Var(&inspectY, "y", 0, "Start Y in inches")
	inspectCmd.Flags().Float64Var(&inspectHeading, "heading", 90, "Start heading in degrees")
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	vm := export.NewVM(coord.Pose{X: inspectX, Y: inspectY, Heading: coord.Radians(inspectHeading)})
	p := export.NewParser(f)
	for {
		a, err := p.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		err = vm.Run(a)
		if err != nil {
			return err
		}
		printAction(out, vm, a)
	}

	pos := vm.Pos()
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Actions:  %d\n", vm.Actions())
	fmt.Fprintf(out, "Travel:   %.3f in\n", vm.Travel())
	fmt.Fprintf(out, "End pose: (%.3f, %.3f) %.1f deg\n", pos.X, pos.Y, coord.Degrees(pos.Heading))
	if len(vm.Commands()) > 0 {
		fmt.Fprintf(out, "Commands: %v\n", vm.Commands())
	}
	return nil
}

func printAction(w io.Writer, vm *export.VM, a export.Action) {
	pos := vm.Pos()
	var detail string
	switch a.Type {
	case route.Follow:
		detail = fmt.Sprintf("%d points lookahead=%g", len(a.Points), a.Lookahead)
	case route.Lateral:
		detail = fmt.Sprintf("distance=%g", a.Specific)
	case route.Turn:
		detail = fmt.Sprintf("angle=%.1f deg", coord.Degrees(a.Specific))
	case route.Command:
		detail = fmt.Sprintf("name=%q", a.Name)
	}
	fmt.Fprintf(w, "%-8s %-28s -> (%.3f, %.3f) %.1f deg\n", a.Type, detail, pos.X, pos.Y, coord.Degrees(pos.Heading))
}
