package internal

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// unit is an independently progressing execution context. It owns the
// handles it opened and closes them when it finishes.
type unit struct {
	id  uuid.UUID
	log *logrus.Entry

	mu      sync.Mutex
	handles map[*hashHandle]struct{}
}

func newUnit(logger *logrus.Logger, name string) *unit {
	id := uuid.New()
	return &unit{
		id: id,
		log: logger.WithFields(logrus.Fields{
			"unit": id.String(),
			"name": name,
		}),
		handles: make(map[*hashHandle]struct{}),
	}
}

func (u *unit) own(h *hashHandle) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.handles[h] = struct{}{}
}

// disown removes h from the unit, reports whether it was owned
func (u *unit) disown(h *hashHandle) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.handles[h]; !ok {
		return false
	}
	delete(u.handles, h)
	return true
}

// transfer moves h to another unit
func (u *unit) transfer(h *hashHandle, to *unit) {
	if u.disown(h) {
		to.own(h)
	}
}

// release closes the connections accepted in scope now that it ended.
// A connection returned out of scope moves to outer instead.
func (u *unit) release(scope, outer *env, result R) {
	if scope.isCaptured() {
		return
	}
	var returned interface{}
	if rv, ok := result.(*returnValue); ok {
		returned = rv.value
	}

	u.mu.Lock()
	var expired []*hashHandle
	for h := range u.handles {
		if !h.endsWith(scope) {
			continue
		}
		if h == returned {
			h.rescope(outer)
			continue
		}
		delete(u.handles, h)
		expired = append(expired, h)
	}
	u.mu.Unlock()

	for _, h := range expired {
		if err := h.close(); err != nil {
			u.log.WithError(err).WithField("handle", h.String()).Warn("closing handle")
			continue
		}
		u.log.WithField("handle", h.String()).Debug("connection released")
	}
}

func (u *unit) close() {
	u.mu.Lock()
	handles := u.handles
	u.handles = make(map[*hashHandle]struct{})
	u.mu.Unlock()

	for h := range handles {
		if err := h.close(); err != nil {
			u.log.WithError(err).WithField("handle", h.String()).Warn("closing handle")
		}
	}
	u.log.WithField("closed", len(handles)).Debug("unit finished")
}
