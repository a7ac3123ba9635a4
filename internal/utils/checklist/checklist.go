// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-20
// Last Modified: 2026-08-23

// Package checklist round-trips Markdown task lists embedded in issue and
// pull request bodies. Only task-list lines are interpreted; every other
// line of the body is preserved byte-for-byte.
package checklist

import (
	"sort"
	"strings"
)

// Check is the state of a checklist item: done, or carrying a textual
// status annotation ("FAIL: flaky on arm", rendered unchecked).
type Check struct {
	Done   bool
	Status string
}

// Checklist is a parsed issue body. Body always reflects the current item
// states; mutating operations rewrite only the affected lines.
type Checklist struct {
	Body string

	order []string
	state map[string]Check
}

// New parses a body into a Checklist.
func New(body string) *Checklist {
	c := &Checklist{}
	c.Process(body, nil)
	return c
}

// FormatLine renders one task-list line for an item.
func FormatLine(item string, check Check) string {
	mark := " "
	prefix := ""
	if check.Status != "" {
		prefix = check.Status + ": "
	} else if check.Done {
		mark = "x"
	}
	return " * [" + mark + "] " + prefix + item
}

// ParseLine recognizes a task-list line and returns its item and state.
// ok is false for every other line.
func ParseLine(line string) (item string, check Check, ok bool) {
	stripped := strings.TrimSpace(line)
	if len(stripped) < 6 {
		return "", Check{}, false
	}
	switch stripped[:6] {
	case "* [ ] ", "- [ ] ", "* [x] ", "- [x] ", "* [X] ", "- [X] ":
	default:
		return "", Check{}, false
	}

	rest := strings.TrimSpace(stripped[6:])
	if rest == "" {
		return "", Check{}, false
	}
	status, item, found := strings.Cut(rest, ": ")
	if !found || item == "" {
		return rest, Check{Done: stripped[3] == 'x' || stripped[3] == 'X'}, true
	}
	return item, Check{Status: status}, true
}

// Process re-parses body, applying updates to matching items in place and
// appending entries for updates that matched no existing line. Leftover
// updates are appended in sorted item order so rewrites are deterministic.
func (c *Checklist) Process(body string, updates map[string]Check) {
	c.order = nil
	c.state = make(map[string]Check)

	pending := make(map[string]Check, len(updates))
	for item, check := range updates {
		pending[item] = check
	}

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		item, check, ok := ParseLine(line)
		if ok {
			if updated, hit := pending[item]; hit {
				check = updated
				delete(pending, item)
				line = FormatLine(item, check)
			}
			c.setItem(item, check)
		}
		lines = append(lines, line)
	}

	leftover := make([]string, 0, len(pending))
	for item := range pending {
		leftover = append(leftover, item)
	}
	sort.Strings(leftover)
	for _, item := range leftover {
		lines = append(lines, FormatLine(item, pending[item]))
		c.setItem(item, pending[item])
	}

	c.Body = strings.Join(lines, "\n")
}

func (c *Checklist) setItem(item string, check Check) {
	if _, seen := c.state[item]; !seen {
		c.order = append(c.order, item)
	}
	c.state[item] = check
}

// Check marks an item done or not done, adding it if absent.
func (c *Checklist) Check(item string, done bool) {
	c.Process(c.Body, map[string]Check{item: {Done: done}})
}

// SetStatus annotates an item with a status, adding it if absent.
func (c *Checklist) SetStatus(item, status string) {
	c.Process(c.Body, map[string]Check{item: {Status: status}})
}

// Add appends an unchecked item. An item already on the list keeps its
// current state; Add never resets a checked item to unchecked. Use Check
// to force a state.
func (c *Checklist) Add(item string) {
	if _, seen := c.state[item]; seen {
		return
	}
	c.Process(c.Body, map[string]Check{item: {}})
}

// Items returns all items in body order with their states.
func (c *Checklist) Items() []string {
	return append([]string(nil), c.order...)
}

// State returns the state of one item.
func (c *Checklist) State(item string) (Check, bool) {
	check, ok := c.state[item]
	return check, ok
}

// Checked returns the items that are done or carry a status annotation.
func (c *Checklist) Checked() map[string]Check {
	result := make(map[string]Check)
	for item, check := range c.state {
		if check.Done || check.Status != "" {
			result[item] = check
		}
	}
	return result
}
