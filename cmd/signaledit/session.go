package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/anggasct/signaledit"
	"github.com/anggasct/signaledit/pkg/mapmodel"
)

// runSession drives an editor from line input. Each line is one tick:
//
//	select <src>-<dst>   put a turn of the intersection under the cursor
//	deselect             clear the cursor
//	show                 redraw without acting
//	<action or key>      invoke an action, e.g. "n" or "add a new empty cycle"
//
// While a wizard is open a line is its answer and "abort" cancels it. The
// loop ends when the session quits or input runs out.
func runSession(r io.Reader, w io.Writer, ed *signaledit.Editor) error {
	in := signaledit.TickInput{Selected: signaledit.NoSelection()}
	render(w, ed, ed.Tick(in))

	scanner := bufio.NewScanner(r)
	for !ed.Done() && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		tick := in

		if ed.Mode() != signaledit.WizardNone {
			if line == "abort" {
				tick = tick.Abort()
			} else {
				tick = tick.Submit(line)
			}
			render(w, ed, ed.Tick(tick))
			continue
		}

		switch {
		case line == "":
			continue
		case line == "show":
		case line == "deselect":
			in.Selected = signaledit.NoSelection()
			tick = in
		case strings.HasPrefix(line, "select "):
			id, err := mapmodel.ParseTurnID(ed.Intersection(), strings.TrimPrefix(line, "select "))
			if err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			in.Selected = signaledit.TurnSelection(id)
			tick = in
		default:
			action, ok := signaledit.ParseAction(line)
			if !ok {
				fmt.Fprintf(w, "error: unknown command %q\n", line)
				continue
			}
			tick = tick.Invoke(action)
		}
		render(w, ed, ed.Tick(tick))
	}
	return scanner.Err()
}

// render prints the view of one tick
func render(w io.Writer, ed *signaledit.Editor, res *signaledit.TickResult) {
	if res.Error != nil {
		fmt.Fprintf(w, "error: %v\n", res.Error)
	}
	if res.Done {
		fmt.Fprintln(w, "session ended")
		return
	}

	plan := ed.Plan()
	cycle := plan.Cycles[res.ActiveCycle]
	fmt.Fprintf(w, "intersection %d: cycle %d/%d, %ds\n",
		int(ed.Intersection()), res.ActiveCycle+1, res.CycleCount, cycle.Seconds())
	for _, id := range cycle.PriorityTurns() {
		fmt.Fprintf(w, "  priority %d -> %d\n", int(id.Src), int(id.Dst))
	}
	for _, id := range cycle.YieldTurns() {
		fmt.Fprintf(w, "  yield    %d -> %d\n", int(id.Src), int(id.Dst))
	}

	if p := res.Prompt; p != nil {
		fmt.Fprintf(w, "? %s", p.Question)
		if p.Prefill != "" {
			fmt.Fprintf(w, " [%s]", p.Prefill)
		}
		fmt.Fprintln(w)
		for _, c := range p.Choices {
			fmt.Fprintf(w, "  - %s\n", c)
		}
		return
	}

	if h := res.Highlight; h != nil {
		style := "solid"
		if h.Dashed {
			style = "dashed"
		}
		fmt.Fprintf(w, "selected %d -> %d (%s)\n", int(h.Turn.Src), int(h.Turn.Dst), style)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "! %s\n", warning)
	}
	for _, action := range res.Offered {
		label := string(action)
		if action == signaledit.ActionToggle && res.ToggleHint != "" {
			label = res.ToggleHint
		}
		fmt.Fprintf(w, "  [%s] %s\n", action.Key(), label)
	}
}
