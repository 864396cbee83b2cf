package gerber

import "testing"

func TestLine_Primitive(t *testing.T) {
	var p Primitive = &Line{}
	if p == nil {
		// In actuality, this test won't compile if it isn't a Primitive.
		t.Errorf("Line does not implement the Primitive interface")
	}
}

func TestArc_Primitive(t *testing.T) {
	var p Primitive = &Arc{}
	if p == nil {
		t.Errorf("Arc does not implement the Primitive interface")
	}
}

func TestCircle_Primitive(t *testing.T) {
	var p Primitive = &Circle{}
	if p == nil {
		t.Errorf("Circle does not implement the Primitive interface")
	}
}

func TestFlash_Primitive(t *testing.T) {
	var p Primitive = &Flash{}
	if p == nil {
		t.Errorf("Flash does not implement the Primitive interface")
	}
}

func TestRegion_Primitive(t *testing.T) {
	var p Primitive = &Region{}
	if p == nil {
		t.Errorf("Region does not implement the Primitive interface")
	}
}

func TestRepeat_Primitive(t *testing.T) {
	var p Primitive = &Repeat{}
	if p == nil {
		t.Errorf("Repeat does not implement the Primitive interface")
	}
}
