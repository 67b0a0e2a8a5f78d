package ldp

import (
	"net"
	"testing"
)

func TestFECTLVRoundTrip(t *testing.T) {
	want := &FECTLV{Addr: net.ParseIP("192.168.1.0"), PrefixLen: 24}
	data := want.Serialize()
	got := &FECTLV{}
	if err := got.Parse(data[TLVHeaderLen:]); err != nil {
		t.Fatalf("Parse: %s", err.Error())
	}
	if got.PrefixLen != want.PrefixLen {
		t.Errorf("PrefixLen = %d, want %d", got.PrefixLen, want.PrefixLen)
	}
	if !got.Addr.Equal(want.Addr) {
		t.Errorf("Addr = %s, want %s", got.Addr, want.Addr)
	}
}

func TestLabelTLVRoundTrip(t *testing.T) {
	want := &LabelTLV{Label: 100523}
	data := want.Serialize()
	got := &LabelTLV{}
	if err := got.Parse(data[TLVHeaderLen:]); err != nil {
		t.Fatalf("Parse: %s", err.Error())
	}
	if got.Label != want.Label {
		t.Errorf("Label = %d, want %d", got.Label, want.Label)
	}
}

func TestStatusTLVRoundTrip(t *testing.T) {
	for _, code := range []StatusCode{StatusSuccess, StatusNoRoute, StatusOther} {
		want := &StatusTLV{Code: code}
		data := want.Serialize()
		got := &StatusTLV{}
		if err := got.Parse(data[TLVHeaderLen:]); err != nil {
			t.Fatalf("Parse: %s", err.Error())
		}
		if got.Code != want.Code {
			t.Errorf("Code = %v, want %v", got.Code, want.Code)
		}
	}
}

func TestHelloParamTLVRoundTrip(t *testing.T) {
	want := &HelloParamTLV{HoldTime: 15}
	data := want.Serialize()
	got := &HelloParamTLV{}
	if err := got.Parse(data[TLVHeaderLen:]); err != nil {
		t.Fatalf("Parse: %s", err.Error())
	}
	if got.HoldTime != want.HoldTime {
		t.Errorf("HoldTime = %d, want %d", got.HoldTime, want.HoldTime)
	}
}

func TestNewObjectByTLVTypeUnknown(t *testing.T) {
	if obj := newObjectByTLVType(0x9999); obj != nil {
		t.Errorf("expected nil for an unknown TLV type, got %T", obj)
	}
}
