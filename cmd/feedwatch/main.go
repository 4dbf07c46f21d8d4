// feedwatch tails a server's task change feed and maintains a live local
// mirror, printing each change as it lands. It is the quickest way to watch
// the feed during development:
//
//	feedwatch -addr localhost:8080 -cookie "task_session=..."
package main

import (
	"flag"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/RichmondRamil/task-management/internal/feed"
	"github.com/RichmondRamil/task-management/internal/syncer"
	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server host:port")
	cookie := flag.String("cookie", "", "session cookie, e.g. task_session=...")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/api/tasks/feed"}

	header := http.Header{}
	if *cookie != "" {
		header.Set("Cookie", *cookie)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		log.Fatalf("dial %s: %v", u.String(), err)
	}
	defer conn.Close()
	log.Printf("connected to %s", u.String())

	mirror := syncer.NewTaskSyncer()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var event feed.Event
			if err := conn.ReadJSON(&event); err != nil {
				log.Printf("read: %v", err)
				return
			}
			if !mirror.Apply(event) {
				continue
			}
			log.Printf("%s task %d %q (%d mirrored)",
				event.Type, event.Task.ID, event.Task.Title, len(mirror.Tasks()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-quit:
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		<-done
	}
}
