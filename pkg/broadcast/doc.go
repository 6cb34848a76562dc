// Package broadcast provides type-safe one-to-many message fan-out.
//
//	b := broadcast.NewMemoryBroadcaster[string](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//
//	for msg := range sub.Receive(ctx) {
//	    fmt.Println(msg.Data)
//	}
//
// MemoryBroadcaster removes a subscriber when its context is cancelled, when
// its buffer is full at send time, or when the broadcaster is closed. Removed
// subscribers have their Receive channel closed, so range loops end.
package broadcast
