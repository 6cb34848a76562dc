// Package nats connects to NATS and prepares a JetStream stream using
// github.com/nats-io/nats.go.
//
//	conn, err := nats.Connect(cfg)
//	if err != nil {
//	    return err
//	}
//	js, err := nats.JetStream(ctx, conn, cfg)
//
// The stream named Config.StreamName captures every subject under
// Config.SubjectPrefix.
package nats
