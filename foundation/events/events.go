// Package events publishes pipeline events over NATS for downstream consumers
package events

import (
	"encoding/json"
	"github.com/nats-io/nats.go"
	"log"
)

const (
	// SnapshotCapturedSubject receives a message each time a raw snapshot is written
	SnapshotCapturedSubject = "realtime-snapshot-captured"
	// DatasetPublishedSubject receives a message each time a daily dataset is uploaded
	DatasetPublishedSubject = "daily-dataset-published"
)

// Publisher sends json encoded events over a NATS connection.
// A nil *Publisher is valid and drops every event, which is how publishing is disabled
type Publisher struct {
	log  *log.Logger
	conn *nats.Conn
}

// Connect opens a NATS connection to url. Returns a nil Publisher when url is empty
func Connect(log *log.Logger, url string, clientName string) (*Publisher, error) {
	if len(url) == 0 {
		return nil, nil
	}
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats disconnected, error:%v", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Printf("nats reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{log: log, conn: conn}, nil
}

// Publish marshals v to json and sends it on subject. Failures are logged, never returned,
// publishing is a side channel and must not stop the pipeline
func (p *Publisher) Publish(subject string, v interface{}) {
	if p == nil {
		return
	}
	jsonData, err := json.Marshal(v)
	if err != nil {
		p.log.Printf("failed to marshal %T for %s, error:%v", v, subject, err)
		return
	}
	if err = p.conn.Publish(subject, jsonData); err != nil {
		p.log.Printf("failed to publish to %s, error:%v", subject, err)
	}
}

// Close flushes pending messages and closes the connection
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.log.Printf("error draining nats connection: %v", err)
		p.conn.Close()
	}
}
