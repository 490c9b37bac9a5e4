// Package classroom routes decoded inbound events to the correct outbound
// broadcast via the Router type, which encapsulates the event dispatch
// policy.
package classroom

import (
	"strings"
	"sync"
)

// Router turns a decoded inbound envelope into zero or one outbound
// envelopes. Every room-scoped result is fanned out to all members of the
// sender's room, including the sender, so every client renders the same
// stream. Ping is the one exception: it is answered to the sender only.
//
// With strict mode enabled the router additionally keeps an authoritative
// per-room set of raised hands and rejects acknowledgements for students who
// are not currently raised. The default is the permissive behavior: every
// client is trusted and no server-side hand state is consulted.
type Router struct {
	broadcaster Broadcaster
	strict      bool

	mu       sync.Mutex
	raised   map[string]map[string]struct{}
	raisedBy map[*Session]map[string]struct{}
}

// NewRouter creates a router that fans out through the given broadcaster.
func NewRouter(b Broadcaster, strict bool) *Router {
	return &Router{
		broadcaster: b,
		strict:      strict,
		raised:      make(map[string]map[string]struct{}),
		raisedBy:    make(map[*Session]map[string]struct{}),
	}
}

// Route dispatches one inbound envelope from a connected session. Envelopes
// with an unrecognized type are ignored for forward compatibility. No branch
// here mutates room membership.
func (r *Router) Route(s *Session, env Envelope) {
	switch env.Type {
	case EventRaiseHand:
		r.routeRaiseHand(s, env)
	case EventLowerHand:
		r.routeLowerHand(s, env)
	case EventAcknowledgeHand:
		r.routeAcknowledgeHand(s, env)
	case EventSendMessage:
		r.routeSendMessage(s, env)
	case EventPing:
		s.deliver(NewPong())
	default:
		// Unknown type: deliberate no-op.
	}
}

// Disconnected broadcasts the implicit hand-lowering for a session that is
// going away. Called from the session's single-shot cleanup path before the
// session leaves the registry, so the departing member still sees its own
// notice when delivery wins the race with the close.
func (r *Router) Disconnected(s *Session) {
	if r.strict {
		r.unmarkSession(s)
	}
	r.broadcaster.Broadcast(s.Room(), NewHandLowered(s.Name(), ReasonDisconnected))
}

func (r *Router) routeRaiseHand(s *Session, env Envelope) {
	student := env.Student
	if student == "" {
		student = s.Name()
	}
	if r.strict && !r.markRaised(s, student) {
		// Already raised; duplicate raises are idempotent in strict mode.
		return
	}
	if student == s.Name() {
		s.setHandRaised(true)
	}
	r.broadcaster.Broadcast(s.Room(), NewHandRaised(student))
}

func (r *Router) routeLowerHand(s *Session, env Envelope) {
	student := env.Student
	if student == "" {
		student = s.Name()
	}
	if r.strict {
		r.unmarkRaised(s.Room(), student)
	}
	if student == s.Name() {
		s.setHandRaised(false)
	}
	r.broadcaster.Broadcast(s.Room(), NewHandLowered(student, ReasonSelfLowered))
}

func (r *Router) routeAcknowledgeHand(s *Session, env Envelope) {
	// A missing student field is silently dropped: no broadcast, no error.
	if env.Student == "" {
		return
	}
	if r.strict {
		if !r.unmarkRaised(s.Room(), env.Student) {
			return
		}
	}
	r.broadcaster.Broadcast(s.Room(), NewHandAcknowledged(env.Student, s.Name()))
}

func (r *Router) routeSendMessage(s *Session, env Envelope) {
	if strings.TrimSpace(env.Message) == "" {
		return
	}
	sender := env.Sender
	if sender == "" {
		sender = s.Name()
	}
	senderType := env.SenderType
	if senderType == "" {
		senderType = string(s.Role())
	}
	r.broadcaster.Broadcast(s.Room(), NewChatMessage(env.Message, sender, senderType))
}

// markRaised records a raised hand and reports whether it was newly raised.
// The marking session is remembered so its entries can be pruned when it
// disconnects, even when the raised name differs from the session's own.
func (r *Router) markRaised(s *Session, student string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := s.Room()
	hands, ok := r.raised[room]
	if !ok {
		hands = make(map[string]struct{})
		r.raised[room] = hands
	}
	if _, up := hands[student]; up {
		return false
	}
	hands[student] = struct{}{}

	names, ok := r.raisedBy[s]
	if !ok {
		names = make(map[string]struct{})
		r.raisedBy[s] = names
	}
	names[student] = struct{}{}
	return true
}

// unmarkRaised clears a raised hand and reports whether it was raised. The
// room's entry is pruned once its last hand goes down, and the name is
// released from whichever session marked it.
func (r *Router) unmarkRaised(room, student string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	hands, ok := r.raised[room]
	if !ok {
		return false
	}
	if _, up := hands[student]; !up {
		return false
	}
	delete(hands, student)
	if len(hands) == 0 {
		delete(r.raised, room)
	}
	for s, names := range r.raisedBy {
		if s.Room() != room {
			continue
		}
		delete(names, student)
		if len(names) == 0 {
			delete(r.raisedBy, s)
		}
	}
	return true
}

// unmarkSession clears every hand the session marked in its room. Runs on
// disconnect so a session that raised other students' names does not leave
// stale ledger entries behind.
func (r *Router) unmarkSession(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := r.raisedBy[s]
	delete(r.raisedBy, s)

	room := s.Room()
	hands := r.raised[room]
	for name := range names {
		delete(hands, name)
	}
	if len(hands) == 0 {
		delete(r.raised, room)
	}
}
