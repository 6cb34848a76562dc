// Package inbox stores in-app notifications per user with read tracking.
//
// The IN_APP channel provider writes items here; the HTTP inbox endpoints read
// them back and mark them read.
//
//	store := inbox.NewMemoryStorage(inbox.WithMaxPerUser(200))
//	_ = store.Add(ctx, inbox.Item{ID: n.ID, UserID: n.UserID, Title: n.Title})
//	unread, _ := store.CountUnread(ctx, n.UserID)
package inbox
