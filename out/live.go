// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// LiveField holds the values of one field in a live frame
type LiveField struct {
	Name   string      `json:"name"`   // name of field
	Space  string      `json:"space"`  // discrete space
	NElem  int         `json:"nelem"`  // number of components of each value
	Values [][]float64 `json:"values"` // all values
}

// LiveFrame holds one frame sent to the clients
type LiveFrame struct {
	Stream string       `json:"stream"` // name of stream
	Time   float64      `json:"time"`   // time of frame
	Step   int          `json:"step"`   // index of frame
	Fields []*LiveField `json:"fields"` // staged data; dummies are not sent
}

// LiveWriter broadcasts every frame as JSON to the websocket clients connected to Addr
type LiveWriter struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool // connected clients
	mutex    sync.Mutex               // protects clients
	listener net.Listener             // listener
	server   *http.Server             // server
}

func init() {
	SetAllocator("live", func(s *Stream, dat *inp.StreamData) (Writer, error) {
		return NewLiveWriter(dat.Address)
	})
}

// NewLiveWriter starts listening to address; e.g. "127.0.0.1:8081". Use port 0 for any port
func NewLiveWriter(address string) (o *LiveWriter, err error) {
	if address == "" {
		return nil, chk.Err("live stream requires an address to listen to")
	}
	o = &LiveWriter{clients: make(map[*websocket.Conn]bool)}
	o.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	o.listener, err = net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", o)
	o.server = &http.Server{Handler: mux}
	go func() {
		if e := o.server.Serve(o.listener); e != nil && e != http.ErrServerClosed {
			log.WithField("address", address).Errorf("live server stopped: %v", e)
		}
	}()
	log.WithField("address", o.Addr()).Info("live output listening")
	return
}

// Addr returns the address the writer listens to
func (o *LiveWriter) Addr() string { return o.listener.Addr().String() }

// NumClients returns the number of connected clients
func (o *LiveWriter) NumClients() int {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return len(o.clients)
}

// ServeHTTP upgrades the connection and keeps the client until it disconnects
func (o *LiveWriter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := o.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("live output: cannot upgrade connection: %v", err)
		return
	}
	o.mutex.Lock()
	o.clients[conn] = true
	o.mutex.Unlock()
	go func() {
		for {
			if _, _, e := conn.ReadMessage(); e != nil {
				o.drop(conn)
				return
			}
		}
	}()
}

// WriteData sends the staged data of one frame to all clients; clients that fail are dropped
func (o *LiveWriter) WriteData(s *Stream) (err error) {
	frame := &LiveFrame{Stream: s.Name, Time: s.Time, Step: s.Step}
	for space := DiscreteSpace(0); space < NumSpaces; space++ {
		for _, d := range s.Data(space) {
			if d.IsDummy() {
				continue
			}
			f := &LiveField{Name: d.FieldName(), Space: space.String(), NElem: d.NElem()}
			for i := 0; i < d.NValues(); i++ {
				f.Values = append(f.Values, d.Value(i))
			}
			frame.Fields = append(frame.Fields, f)
		}
	}
	o.mutex.Lock()
	defer o.mutex.Unlock()
	for conn := range o.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if e := conn.WriteJSON(frame); e != nil {
			log.Warnf("live output: dropping client %v: %v", conn.RemoteAddr(), e)
			delete(o.clients, conn)
			conn.Close()
		}
	}
	return
}

// Close disconnects all clients and stops the server
func (o *LiveWriter) Close() (err error) {
	o.mutex.Lock()
	for conn := range o.clients {
		conn.Close()
		delete(o.clients, conn)
	}
	o.mutex.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.server.Shutdown(ctx)
}

func (o *LiveWriter) drop(conn *websocket.Conn) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.clients[conn] {
		delete(o.clients, conn)
		conn.Close()
	}
}
