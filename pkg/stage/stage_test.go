package stage

import "testing"

func TestCountersDetailsOptional(t *testing.T) {
	c := NewCounters(false)
	c.Accept()
	c.Drop(NotProtocol)
	if c.Count() != 1 || c.Drops() != 1 {
		t.Fatalf("count=%d drops=%d, want 1,1", c.Count(), c.Drops())
	}
	if c.ReasonCount(NotProtocol) != 0 {
		t.Error("reason counters should not be tracked without Details")
	}
	if c.DropDetails() != "" {
		t.Error("DropDetails should be empty without Details")
	}
}

func TestCountersWithDetails(t *testing.T) {
	c := NewCounters(true)
	c.Drop(BadLength)
	c.Drop(BadLength)
	c.Drop(BadChecksum)
	if c.ReasonCount(BadLength) != 2 {
		t.Errorf("ReasonCount(BadLength) = %d, want 2", c.ReasonCount(BadLength))
	}
	details := c.DropDetails()
	if details == "" {
		t.Fatal("expected non-empty drop_details with Details enabled")
	}
}

func TestDefaultConfigIsSingleOutput(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TwoOutputs() {
		t.Error("DefaultConfig should have a single output port")
	}
	cfg.Ports = 2
	if !cfg.TwoOutputs() {
		t.Error("Config with Ports=2 should report TwoOutputs")
	}
	cfg.Ports = 0
	if cfg.TwoOutputs() {
		t.Error("Config with Ports=0 should fall back to a single output")
	}
}

func TestPacketsInEqualsDropsPlusCount(t *testing.T) {
	c := NewCounters(true)
	packetsIn := 50
	for i := 0; i < packetsIn; i++ {
		if i%3 == 0 {
			c.Drop(Reason(i % int(numReasons)))
		} else {
			c.Accept()
		}
	}
	if c.Count()+c.Drops() != uint64(packetsIn) {
		t.Errorf("count+drops = %d, want %d", c.Count()+c.Drops(), packetsIn)
	}
	var sum uint64
	for r := Reason(0); r < numReasons; r++ {
		sum += c.ReasonCount(r)
	}
	if sum != c.Drops() {
		t.Errorf("sum(reason_drops) = %d, want drops = %d", sum, c.Drops())
	}
}
