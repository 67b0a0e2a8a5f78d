package ldp

import (
	"bytes"

	"github.com/golang/glog"
)

// parseMessage parses received data into a Message (header + TLV object
// list), mirroring the teacher's pcep/parser.go parseMessage.
func parseMessage(data []byte) (msg *Message, err error) {
	buf := bytes.NewBuffer(data)
	hdr := &CommonHeader{}
	if err = hdr.Parse(buf.Next(HeaderLen)); err != nil {
		return
	}
	glog.V(4).Infof("parseMessage: received message of len %d, type %s", hdr.MsgLen, msgTypeName(int(hdr.MsgType)))
	msg = &Message{MsgType: int(hdr.MsgType), SenderID: hdr.SenderID, ReceiverID: hdr.ReceiverID}

	for buf.Len() > 0 {
		tlvHdr := &TLVHeader{}
		if err = tlvHdr.Parse(buf.Next(TLVHeaderLen)); err != nil {
			return
		}
		obj := newObjectByTLVType(int(tlvHdr.Type))
		if obj == nil {
			glog.V(4).Infof("parseMessage: skip parsing unknown TLV type %#x", tlvHdr.Type)
			buf.Next(int(tlvHdr.Length))
			continue
		}
		if err = obj.Parse(buf.Next(int(tlvHdr.Length))); err != nil {
			return
		}
		msg.Objects = append(msg.Objects, Object{TLVType: int(tlvHdr.Type), Obj: obj})
	}

	glog.V(4).Infof("parseMessage: parsed %d objects", len(msg.Objects))
	return
}

// SerializeMessage serializes a Message's objects first, then prefixes
// the common header with the resulting total length, mirroring the
// teacher's SerializeMessage.
func SerializeMessage(msg *Message) []byte {
	buf := &bytes.Buffer{}
	var tlvBuf []byte
	for _, o := range msg.Objects {
		tlvBuf = append(tlvBuf, o.Obj.Serialize()...)
	}
	hdr := NewCommonHeader(msg.MsgType, len(tlvBuf))
	hdr.SenderID = msg.SenderID
	hdr.ReceiverID = msg.ReceiverID
	buf.Write(hdr.Serialize())
	buf.Write(tlvBuf)
	glog.V(4).Infof("SerializeMessage: serialized %d objects, %d bytes for message %s", len(msg.Objects), int(hdr.MsgLen), msgTypeName(int(hdr.MsgType)))
	return buf.Bytes()
}

// SplitLdpMessage is a bufio.SplitFunc that splits a TCP stream on LDP
// message boundaries, mirroring the teacher's SplitPcepMessage.
func SplitLdpMessage(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 || len(data) < HeaderLen {
		return 0, nil, nil
	}
	hdr := &CommonHeader{}
	if err = hdr.Parse(data[:HeaderLen]); err != nil {
		return 0, nil, nil
	}
	if len(data) < int(hdr.MsgLen) {
		return 0, nil, nil
	}
	return int(hdr.MsgLen), data[0:hdr.MsgLen], nil
}
