package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/kbukum/sessionkit/event"
)

// printer serializes output from the agent's goroutines and the input loop.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrinter(w io.Writer) *printer { return &printer{w: w} }

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) event(ev event.Event) {
	switch v := ev.Payload().(type) {
	case event.RosterSnapshot:
		p.roster(v.Participants)
	case event.RosterChanged:
		if v.DisplayName != "" && v.Change != "" {
			p.printf("* %s %s (%d here)\n", v.DisplayName, v.Change, v.TotalCount)
			return
		}
		p.roster(v.Participants)
	case event.ChatMessage:
		p.chat(v)
	case event.ProgressUpdate:
		p.progress(v)
	case event.Error:
		p.printf("! %s\n", v.Message)
	}
}

func (p *printer) roster(members []event.Member) {
	names := lo.Map(members, func(m event.Member, _ int) string { return m.DisplayName })
	p.printf("* here: %s\n", strings.Join(names, ", "))
}

func (p *printer) chat(m event.ChatMessage) {
	p.printf("[%s] %s: %s\n", m.Timestamp.Local().Format("15:04"), m.DisplayName, m.Text)
}

func (p *printer) progress(u event.ProgressUpdate) {
	line := fmt.Sprintf("~ %s: %s %.0f%%", u.DisplayName, u.Stage, u.Value)
	if u.Status != "" {
		line += " (" + u.Status + ")"
	}
	p.printf("%s\n", line)
}
