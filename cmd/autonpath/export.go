package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mastercactapus/autonpath/editor"
	"github.com/mastercactapus/autonpath/persist"
	"github.com/spf13/cobra"
)

var (
	exportOutput  string
	exportSegment int
)

var exportCmd = &cobra.Command{
	Use:   "export <route.json>",
	Short: "Convert a saved route to the robot's text format",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().IntVar(&exportSegment, "segment", 0, "Only write the sampled points of the follow segment with this id")
}

func runExport(cmd *cobra.Command, args []string) error {
	ed := editor.New(editor.Config{
		Store: persist.FileStore{Dir: filepath.Dir(args[0])},
	})
	_, err := ed.Load(filepath.Base(args[0]))
	if err != nil {
		return err
	}

	if exportOutput == "" {
		return writeExport(ed, os.Stdout)
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return err
	}
	err = writeExport(ed, f)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeExport(ed *editor.Editor, w io.Writer) error {
	if exportSegment != 0 {
		return ed.ExportSegment(w, exportSegment)
	}
	return ed.Export(w)
}
