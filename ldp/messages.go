package ldp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
)

// Message type codes. Numeric values follow RFC 5036's assignments (as
// also used by other from-scratch Go LDP implementations in the wild);
// HELLO/ADDRESS/ADDRESS_WITHDRAW are carried here only so the message
// engine can recognize and reject them per spec.md §4.4 — ADDRESS family
// handling itself is a non-goal.
const (
	MsgHello           = 0x0100
	MsgAddress         = 0x0300
	MsgAddressWithdraw = 0x0301
	MsgLabelMapping    = 0x0400
	MsgLabelRequest    = 0x0401
	MsgLabelWithdraw   = 0x0402
	MsgLabelRelease    = 0x0403
	MsgNotification    = 0x0001
)

var msgTypeNames = map[int]string{
	MsgHello:           "HELLO",
	MsgAddress:         "ADDRESS",
	MsgAddressWithdraw: "ADDRESS_WITHDRAW",
	MsgLabelMapping:    "LABEL_MAPPING",
	MsgLabelRequest:    "LABEL_REQUEST",
	MsgLabelWithdraw:   "LABEL_WITHDRAW",
	MsgLabelRelease:    "LABEL_RELEASE",
	MsgNotification:    "NOTIFICATION",
}

func msgTypeName(t int) string {
	if n, ok := msgTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("MsgType(%#x)", t)
}

// HeaderLen is the size of CommonHeader on the wire: msg type(2) + total
// length(2) + sender router id(4) + receiver router id(4), per spec.md
// §6's "common header: message type, sender router id, receiver router
// id, total length".
const HeaderLen = 12

// CommonHeader is the fixed header every LDP message carries.
type CommonHeader struct {
	MsgType    uint16
	MsgLen     uint16
	SenderID   uint32
	ReceiverID uint32
}

func NewCommonHeader(msgType, objLen int) *CommonHeader {
	return &CommonHeader{
		MsgType: uint16(msgType),
		MsgLen:  uint16(HeaderLen + objLen),
	}
}

func (h *CommonHeader) Parse(data []byte) error {
	if len(data) < HeaderLen {
		return newProtocolError("CommonHeader.Parse: need %d bytes, got %d", HeaderLen, len(data))
	}
	buf := bytes.NewBuffer(data)
	binary.Read(buf, binary.BigEndian, h)
	return nil
}

func (h CommonHeader) Serialize() []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, h)
	return buf.Bytes()
}

// Object pairs a TLV type code with its decoded value.
type Object struct {
	TLVType int
	Obj     LdpObject
}

// Message is an LDP PDU: a common header plus a list of TLV objects, the
// way the teacher's PcepMsg pairs a CommonHeader with an ObjectList
// (pcep/messages.go).
type Message struct {
	MsgType    int
	SenderID   uint32
	ReceiverID uint32
	Objects    []Object
}

func (m *Message) fec() (*FECTLV, bool) {
	for _, o := range m.Objects {
		if f, ok := o.Obj.(*FECTLV); ok {
			return f, true
		}
	}
	return nil, false
}

func (m *Message) label() (*LabelTLV, bool) {
	for _, o := range m.Objects {
		if l, ok := o.Obj.(*LabelTLV); ok {
			return l, true
		}
	}
	return nil, false
}

func (m *Message) status() (*StatusTLV, bool) {
	for _, o := range m.Objects {
		if s, ok := o.Obj.(*StatusTLV); ok {
			return s, true
		}
	}
	return nil, false
}

func (m *Message) helloParam() (*HelloParamTLV, bool) {
	for _, o := range m.Objects {
		if h, ok := o.Obj.(*HelloParamTLV); ok {
			return h, true
		}
	}
	return nil, false
}

// NewHelloMsg builds the periodic/triggered discovery hello, per
// spec.md §4.1/§6.
func NewHelloMsg(senderID uint32, holdTime uint16) *Message {
	return &Message{
		MsgType:  MsgHello,
		SenderID: senderID,
		Objects: []Object{
			{TLVType: OcHelloParam, Obj: &HelloParamTLV{HoldTime: holdTime}},
		},
	}
}

func fecObject(addr net.IP, prefixLen int) Object {
	return Object{TLVType: OcFec, Obj: &FECTLV{Addr: addr, PrefixLen: prefixLen}}
}

// NewLabelRequestMsg builds LABEL_REQUEST for (addr, prefixLen), per
// spec.md §4.4.
func NewLabelRequestMsg(senderID uint32, addr net.IP, prefixLen int) *Message {
	return &Message{
		MsgType:  MsgLabelRequest,
		SenderID: senderID,
		Objects:  []Object{fecObject(addr, prefixLen)},
	}
}

// NewLabelMappingMsg builds LABEL_MAPPING for (addr, prefixLen) with the
// given label, per spec.md §4.4.
func NewLabelMappingMsg(senderID uint32, addr net.IP, prefixLen, label int) *Message {
	return &Message{
		MsgType:  MsgLabelMapping,
		SenderID: senderID,
		Objects: []Object{
			fecObject(addr, prefixLen),
			{TLVType: OcLabel, Obj: &LabelTLV{Label: label}},
		},
	}
}

// NewLabelWithdrawMsg builds LABEL_WITHDRAW, per spec.md §4.3/§4.4.
func NewLabelWithdrawMsg(senderID uint32, addr net.IP, prefixLen, label int) *Message {
	return &Message{
		MsgType:  MsgLabelWithdraw,
		SenderID: senderID,
		Objects: []Object{
			fecObject(addr, prefixLen),
			{TLVType: OcLabel, Obj: &LabelTLV{Label: label}},
		},
	}
}

// NewLabelReleaseMsg builds LABEL_RELEASE, per spec.md §4.3/§4.4.
func NewLabelReleaseMsg(senderID uint32, addr net.IP, prefixLen, label int) *Message {
	return &Message{
		MsgType:  MsgLabelRelease,
		SenderID: senderID,
		Objects: []Object{
			fecObject(addr, prefixLen),
			{TLVType: OcLabel, Obj: &LabelTLV{Label: label}},
		},
	}
}

// NewNotificationMsg builds a NOTIFICATION for the given status and FEC,
// per spec.md §4.4.
func NewNotificationMsg(senderID uint32, status StatusCode, addr net.IP, prefixLen int) *Message {
	return &Message{
		MsgType:  MsgNotification,
		SenderID: senderID,
		Objects: []Object{
			{TLVType: OcStatus, Obj: &StatusTLV{Code: status}},
			fecObject(addr, prefixLen),
		},
	}
}
