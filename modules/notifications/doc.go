// Package notifications is the HTTP surface of courier.
//
// Routes served by Service.Handle:
//
//	POST /events                        ingest an event, emit it on the bus
//	GET  /notifications                 list (user_id, status, event_type, limit, offset)
//	GET  /notifications/{id}            notification with its deliveries
//	GET  /notifications/{id}/deliveries
//	POST /notifications/{id}/dispatch   re-send channels that did not succeed
//	POST /deliveries/{id}/receipt       provider receipt, SENT -> DELIVERED
//	GET  /users/{id}/settings
//	PUT  /users/{id}/settings           when a SettingsWriter is configured
//	GET  /users/{id}/inbox              when an inbox is configured
//	POST /users/{id}/inbox/read
//	GET  /users/{id}/stream             datastar event stream, when a Streamer is configured
//	GET  /audit/events                  when an audit reader is configured
//
// Ingress bodies use the upstream field names:
//
//	{"type": "CLEANING_ASSIGNED", "orgId": "org-1", "targetUserIds": ["u1"], "payload": {...}, "version": 1}
//
// Responses use the handler package JSON envelope. Unknown notifications,
// deliveries and settings answer 404; invalid status transitions 409; bad
// receipt signatures 401.
package notifications
