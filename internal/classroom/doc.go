// Package classroom implements the room-scoped realtime core of the RaiseHand
// server: students raise and lower hands, teachers acknowledge them, and
// either side can chat. Every event is fanned out to all members of the
// sender's room, including the sender, so every UI renders from the same
// stream.
//
// The implementation is organized into specialized files for the wire
// envelope codec, the room registry, per-connection sessions, the event
// router, the broadcast backends, and the HTTP/WebSocket surface, to keep
// the codebase maintainable and testable as the project grows.
package classroom
