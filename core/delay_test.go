package core

import "testing"

type countingTimer struct {
	starts, waits, stops int
	onWait               func()
}

func (c *countingTimer) Start() { c.starts++ }
func (c *countingTimer) Stop()  { c.stops++ }
func (c *countingTimer) Wait() {
	c.waits++
	if c.onWait != nil {
		c.onWait()
	}
}

func TestDelayCountsCompareMatches(t *testing.T) {
	timer := &countingTimer{}
	d := NewDelayer(timer)

	d.Delay(5)
	if timer.waits != 5 {
		t.Errorf("Expected 5 waits, got %d", timer.waits)
	}
	if timer.starts != 1 || timer.stops != 1 {
		t.Errorf("Expected one start and one stop, got %d/%d", timer.starts, timer.stops)
	}

	d.Delay(0)
	if timer.starts != 1 {
		t.Errorf("Expected a zero delay not to start the timer, got %d starts", timer.starts)
	}
}

func TestDelayRejectsNesting(t *testing.T) {
	timer := &countingTimer{}
	d := NewDelayer(timer)
	timer.onWait = func() {
		timer.onWait = nil
		d.Delay(1)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected nested delay to panic")
		}
	}()
	d.Delay(2)
}
