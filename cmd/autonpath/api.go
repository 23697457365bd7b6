package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"strconv"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/editor"
	"github.com/mastercactapus/autonpath/export"
	"github.com/mastercactapus/autonpath/persist"
	"github.com/mastercactapus/autonpath/route"
	"github.com/mastercactapus/autonpath/tessellate"
	"github.com/mastercactapus/autonpath/watcher"
)

const frameChannel = "/events/frame"

type api struct {
	http.Handler
	ed       *editor.Editor
	store    persist.FileStore
	watch    *watcher.FileWatcher
	sse      *sse.Server
	upgrader websocket.Upgrader
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type selectionJSON struct {
	Segment int `json:"segment"`
	Point   int `json:"point"`
}

type frameJSON struct {
	Curve    tessellate.Pixels `json:"curve"`
	Handles  tessellate.Pixels `json:"handles"`
	Items    persist.Items     `json:"items"`
	Selected *selectionJSON    `json:"selected,omitempty"`
	Pose     *pointJSON        `json:"pose,omitempty"`
}

// newAPI wires the editor to HTTP. fw may be nil to disable reloading.
func newAPI(ed *editor.Editor, store persist.FileStore, fw *watcher.FileWatcher) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		ed:      ed,
		store:   store,
		watch:   fw,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r.HandleFunc("/api/frame", a.frame).Methods("GET")
	r.HandleFunc("/api/click", a.click).Methods("POST")
	r.HandleFunc("/api/lateral", a.lateral).Methods("POST")
	r.HandleFunc("/api/turn", a.turn).Methods("POST")
	r.HandleFunc("/api/command", a.command).Methods("POST")
	r.HandleFunc("/api/delete-last", a.deleteLast).Methods("POST")
	r.HandleFunc("/api/select", a.selectPoint).Methods("POST")
	r.HandleFunc("/api/deselect", a.deselect).Methods("POST")
	r.HandleFunc("/api/move", a.move).Methods("POST")
	r.HandleFunc("/api/start", a.start).Methods("POST")
	r.HandleFunc("/api/clear", a.clear).Methods("POST")
	r.HandleFunc("/api/segments/{id}", a.changeSegment).Methods("POST")
	r.HandleFunc("/api/load/{name}", a.load).Methods("POST")
	r.HandleFunc("/api/save/{name}", a.save).Methods("POST")
	r.HandleFunc("/api/export/{name}", a.exportRoute).Methods("POST")
	r.HandleFunc("/api/export/{name}/{id}", a.exportSegment).Methods("POST")
	r.HandleFunc("/ws", a.serveWS)

	fs := http.FileServer(http.Dir(store.Dir))
	r.PathPrefix("/data/").Handler(http.StripPrefix("/data", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case "GET":
			fs.ServeHTTP(w, req)
		case "PUT":
			a.putFile(w, req)
		case "DELETE":
			a.deleteFile(w, req)
		default:
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})))

	r.PathPrefix("/events/").Handler(a.sse)

	return a
}

// form reads numeric form values, keeping the first error.
type form struct {
	req *http.Request
	err error
}

func (f *form) float(param string) (val float64) {
	if f.err != nil {
		return 0
	}
	val, f.err = strconv.ParseFloat(f.req.FormValue(param), 64)
	return val
}

func (f *form) int(param string) (val int) {
	if f.err != nil {
		return 0
	}
	val, f.err = strconv.Atoi(f.req.FormValue(param))
	return val
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, persist.ErrBadPath),
		errors.Is(err, persist.ErrMalformed),
		errors.Is(err, route.ErrInvalidParameter),
		errors.Is(err, export.ErrNotFollow):
		return http.StatusBadRequest
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, editor.ErrUnknownSegment):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (a *api) encode(v frameJSON) ([]byte, error) {
	return json.Marshal(v)
}

func newFrameJSON(fr tessellate.Frame) frameJSON {
	return frameJSON{
		Curve:   fr.Curve,
		Handles: fr.Handles,
		Items:   persist.Items(fr.Segments),
	}
}

// broadcast sends data to every SSE subscriber.
func (a *api) broadcast(data []byte) {
	a.sse.SendMessage(frameChannel, sse.SimpleMessage(string(data)))
}

func (a *api) broadcastFrame(fr tessellate.Frame) {
	data, err := a.encode(newFrameJSON(fr))
	if err != nil {
		log.Printf("ERROR: marshal json: %+v", err)
		return
	}
	a.broadcast(data)
}

func (a *api) write(w http.ResponseWriter, v frameJSON, notify bool) {
	data, err := a.encode(v)
	if err != nil {
		log.Printf("ERROR: marshal json: %+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if notify {
		a.broadcast(data)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (a *api) reply(w http.ResponseWriter, fr tessellate.Frame) {
	a.write(w, newFrameJSON(fr), true)
}

func (a *api) frame(w http.ResponseWriter, req *http.Request) {
	a.write(w, newFrameJSON(a.ed.Frame()), false)
}

func (a *api) click(w http.ResponseWriter, req *http.Request) {
	f := form{req: req}
	x, y := f.int("x"), f.int("y")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusBadRequest)
		return
	}
	a.reply(w, a.ed.Click(x, y))
}

func (a *api) lateral(w http.ResponseWriter, req *http.Request) {
	f := form{req: req}
	distance, endTol, timeout := f.float("distance"), f.float("endTol"), f.int("timeout")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusBadRequest)
		return
	}
	a.reply(w, a.ed.AddLateral(distance, endTol, timeout))
}

func (a *api) turn(w http.ResponseWriter, req *http.Request) {
	f := form{req: req}
	angle, endTol, timeout := f.float("angle"), f.float("endTol"), f.int("timeout")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusBadRequest)
		return
	}
	a.reply(w, a.ed.AddTurn(angle, endTol, timeout))
}

func (a *api) command(w http.ResponseWriter, req *http.Request) {
	fr, err := a.ed.AddCommand(req.FormValue("name"))
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	a.reply(w, fr)
}

func (a *api) deleteLast(w http.ResponseWriter, req *http.Request) {
	a.reply(w, a.ed.DeleteLast())
}

func (a *api) selection(fr tessellate.Frame) frameJSON {
	v := newFrameJSON(fr)
	if sel, ok := a.ed.Selected(); ok {
		v.Selected = &selectionJSON{Segment: sel.Segment, Point: sel.Point}
	}
	return v
}

func (a *api) selectPoint(w http.ResponseWriter, req *http.Request) {
	f := form{req: req}
	x, y := f.int("x"), f.int("y")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusBadRequest)
		return
	}
	a.write(w, a.selection(a.ed.Select(x, y)), false)
}

func (a *api) deselect(w http.ResponseWriter, req *http.Request) {
	a.ed.Deselect()
	a.write(w, newFrameJSON(a.ed.Frame()), false)
}

func (a *api) moved(fr tessellate.Frame, p coord.Pose, ok bool) frameJSON {
	v := a.selection(fr)
	if ok {
		v.Pose = &pointJSON{X: p.X, Y: p.Y}
	}
	return v
}

func (a *api) move(w http.ResponseWriter, req *http.Request) {
	f := form{req: req}
	x, y := f.int("x"), f.int("y")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusBadRequest)
		return
	}
	fr, p, ok := a.ed.MoveControl(x, y)
	a.write(w, a.moved(fr, p, ok), ok)
}

func (a *api) start(w http.ResponseWriter, req *http.Request) {
	f := form{req: req}
	x, y, heading := f.float("x"), f.float("y"), f.float("heading")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusBadRequest)
		return
	}
	a.reply(w, a.ed.ChangeStart(x, y, heading))
}

func (a *api) clear(w http.ResponseWriter, req *http.Request) {
	a.reply(w, a.ed.Clear())
}

func (a *api) changeSegment(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := form{req: req}
	endTol, timeout := f.float("endTol"), f.int("timeout")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusBadRequest)
		return
	}

	fr, err := a.ed.ChangeSegment(id, endTol, timeout, req.FormValue("specific"))
	if err != nil {
		log.Printf("ERROR: change segment id=%d: %+v", id, err)
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	a.reply(w, fr)
}

func (a *api) load(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]
	fr, err := a.ed.Load(name)
	if err != nil {
		log.Printf("ERROR: load '%s': %+v", name, err)
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	a.watchLoaded(name)
	a.reply(w, fr)
}

// watchLoaded reloads name into the editor whenever it changes on disk.
func (a *api) watchLoaded(name string) {
	if a.watch == nil {
		return
	}
	full, err := a.store.Path(name)
	if err != nil {
		return
	}
	err = a.watch.Watch(full, func(string) {
		fr, err := a.ed.Load(name)
		if err != nil {
			log.Printf("ERROR: reload '%s': %+v", name, err)
			return
		}
		log.Printf("Reloaded '%s'", name)
		a.broadcastFrame(fr)
	})
	if err != nil {
		log.Printf("ERROR: watch '%s': %+v", name, err)
	}
}

func (a *api) save(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]
	err := a.ed.Save(name)
	if err != nil {
		log.Printf("ERROR: save '%s': %+v", name, err)
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeExport stores data under name and echoes it back.
func (a *api) writeExport(w http.ResponseWriter, name string, data []byte) {
	f, err := a.store.Create(name)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/plain")
	_, err = io.Copy(io.MultiWriter(w, f), bytes.NewReader(data))
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", name, err)
	}
}

func (a *api) exportRoute(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]
	var buf bytes.Buffer
	err := a.ed.Export(&buf)
	if err != nil {
		log.Printf("ERROR: export: %+v", err)
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	a.writeExport(w, name, buf.Bytes())
}

func (a *api) exportSegment(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	err = a.ed.ExportSegment(&buf, id)
	if err != nil {
		log.Printf("ERROR: export segment id=%d: %+v", id, err)
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	a.writeExport(w, vars["name"], buf.Bytes())
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	f, err := a.store.Create(req.URL.Path)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", req.URL.Path, err)
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", req.URL.Path, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	err := a.store.Remove(req.URL.Path)
	if err != nil {
		log.Printf("ERROR: delete '%s': %+v", req.URL.Path, err)
		http.Error(w, err.Error(), errStatus(err))
		return
	}
}

type wsRequest struct {
	Op string `json:"op"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

type wsError struct {
	Error string `json:"error"`
}

// serveWS handles dragging control points. Each request gets a frame
// in reply; moves are also broadcast.
func (a *api) serveWS(w http.ResponseWriter, req *http.Request) {
	ws, err := a.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("ERROR: upgrade:", err)
		return
	}
	defer ws.Close()

	for {
		var msg wsRequest
		err = ws.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("ERROR: read:", err)
			}
			return
		}

		var v frameJSON
		var notify bool
		switch msg.Op {
		case "select":
			v = a.selection(a.ed.Select(msg.X, msg.Y))
		case "move":
			fr, p, ok := a.ed.MoveControl(msg.X, msg.Y)
			v, notify = a.moved(fr, p, ok), ok
		case "deselect":
			a.ed.Deselect()
			v = newFrameJSON(a.ed.Frame())
		default:
			err = ws.WriteJSON(wsError{Error: "unknown op '" + msg.Op + "'"})
			if err != nil {
				log.Println("ERROR: send:", err)
				return
			}
			continue
		}

		var data []byte
		data, err = a.encode(v)
		if err != nil {
			log.Printf("ERROR: marshal json: %+v", err)
			return
		}
		if notify {
			a.broadcast(data)
		}
		err = ws.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			log.Println("ERROR: send:", err)
			return
		}
	}
}
