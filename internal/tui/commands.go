package tui

import (
	"time"
)

type toast struct {
	msg  string
	when time.Time
	ttl  time.Duration
}

// Toast notifications

func (c *TUIController) addToast(s string) {
	c.toasts = append(c.toasts, toast{msg: s, when: time.Now(), ttl: 5 * time.Second})
	c.gcToasts()
}

func (c *TUIController) gcToasts() {
	now := time.Now()
	fresh := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Sub(t.when) < t.ttl {
			fresh = append(fresh, t)
		}
	}
	c.toasts = fresh
}

// latestToast returns the newest live notification, if any.
func (c *TUIController) latestToast() (string, bool) {
	c.gcToasts()
	if len(c.toasts) == 0 {
		return "", false
	}
	return c.toasts[len(c.toasts)-1].msg, true
}
