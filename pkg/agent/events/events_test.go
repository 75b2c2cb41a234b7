package events

import "testing"

func TestEmitEvent_FansOutWithIteration(t *testing.T) {
	e := NewSimpleEventEmitter()
	var got []AgentEvent
	e.AddHandler(func(ev AgentEvent) { got = append(got, ev) })
	e.AddHandler(func(ev AgentEvent) { got = append(got, ev) })

	e.EmitEvent(EventTypeIterationStart, nil)
	e.SetIteration(2, 10)
	e.EmitEvent(EventTypeModelResponse, ModelResponseData{Action: "mouse_click"})

	if len(got) != 4 {
		t.Fatalf("expected 4 deliveries, got %d", len(got))
	}
	if got[0].Iteration != nil {
		t.Errorf("first event should have no iteration info, got %+v", got[0].Iteration)
	}
	last := got[3]
	if last.Type != EventTypeModelResponse || last.Iteration == nil || last.Iteration.Current != 2 || last.Iteration.Maximum != 10 {
		t.Errorf("unexpected last event: %+v", last)
	}
	if data, ok := last.Data.(ModelResponseData); !ok || data.Action != "mouse_click" {
		t.Errorf("unexpected data: %#v", last.Data)
	}
}
