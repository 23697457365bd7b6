package main

import (
	"log"
	"net/http"
	"time"

	"github.com/mastercactapus/autonpath/editor"
	"github.com/mastercactapus/autonpath/persist"
	"github.com/mastercactapus/autonpath/watcher"
	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	serveDir   string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the editor HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9091", "Address to bind the server to.")
	serveCmd.Flags().StringVar(&serveDir, "dir", "./data", "Data directory to use.")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the loaded route when its file changes.")
}

func runServe(cmd *cobra.Command, args []string) error {
	store := persist.FileStore{Dir: serveDir}
	ed := editor.New(editor.Config{Store: store})

	var fw *watcher.FileWatcher
	if serveWatch {
		var err error
		fw, err = watcher.NewFileWatcher(250 * time.Millisecond)
		if err != nil {
			return err
		}
		defer fw.Close()
		fw.Start()
	}

	a := newAPI(ed, store, fw)

	log.Printf("Listening on %s (data dir '%s')", serveAddr, serveDir)
	return http.ListenAndServe(serveAddr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		a.ServeHTTP(w, req)
	}))
}
