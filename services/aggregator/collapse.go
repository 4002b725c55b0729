package aggregator

import (
	"sort"

	"github.com/customeros/mailbridge/dto"
)

// Collapse reduces summaries to one representative per thread: the member
// with the greatest date string, annotated with the thread size. Dates are
// compared as plain strings and a missing date sorts lowest. Representatives
// are returned newest first; ties keep first-seen thread order.
func Collapse(summaries []dto.MessageSummary) []dto.MessageSummary {
	type group struct {
		rep   dto.MessageSummary
		count int
	}

	groups := make(map[string]*group)
	var order []string
	for _, s := range summaries {
		g, ok := groups[s.ThreadID]
		if !ok {
			groups[s.ThreadID] = &group{rep: s, count: 1}
			order = append(order, s.ThreadID)
			continue
		}
		g.count++
		if s.DateOrEmpty() > g.rep.DateOrEmpty() {
			g.rep = s
		}
	}

	out := make([]dto.MessageSummary, 0, len(order))
	for _, threadID := range order {
		g := groups[threadID]
		count := g.count
		rep := g.rep
		rep.MessagesInThread = &count
		out = append(out, rep)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateOrEmpty() > out[j].DateOrEmpty()
	})
	return out
}
