package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/mwatch.go/pkg/framework"
)

// TypeID Groups
const (
	GroupSystem uint32 = 0x00010000
	GroupApp    uint32 = 0x00020000
)

// TypeIDs
const (
	NotificationTypeID   uint32 = TypeIDKindEvent | GroupSystem | 0x0001
	SyscallAppliedTypeID uint32 = TypeIDKindEvent | GroupSystem | 0x0002
	AppStatusTypeID      uint32 = TypeIDKindEvent | GroupApp | 0x0001
	AppUploadTypeID      uint32 = TypeIDKindEvent | GroupApp | 0x0002
	InputTypeID          uint32 = TypeIDKindCommand | GroupApp | 0x0001
)

// MessageTypes are predefined mapping of type ID to messages.
var MessageTypes = map[uint32]SerializableMessage{
	NotificationTypeID:   (*Notification)(nil),
	SyscallAppliedTypeID: (*SyscallApplied)(nil),
	AppStatusTypeID:      (*AppStatus)(nil),
	AppUploadTypeID:      (*AppUpload)(nil),
	InputTypeID:          (*Input)(nil),
}

// Notification is emitted when a notification is stored.
type Notification struct {
	Source string `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Title  string `protobuf:"bytes,2,opt,name=title,proto3" json:"title,omitempty"`
	Body   string `protobuf:"bytes,3,opt,name=body,proto3" json:"body,omitempty"`
	Count  uint32 `protobuf:"varint,4,opt,name=count,proto3" json:"count,omitempty"`
}

// NewMessage implements Message.
func (m *Notification) NewMessage() fx.Message { return &Notification{} }

// TypeID implements SerializableMessage.
func (m *Notification) TypeID() uint32 { return NotificationTypeID }

// Serializable implements SerializableMessage.
func (m *Notification) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Notification) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Notification) Reset() { *m = Notification{} }

// String implements proto.Message.
func (m *Notification) String() string { return proto.CompactTextString(m) }

// SyscallApplied is emitted after a system call is executed.
type SyscallApplied struct {
	Command     string `protobuf:"bytes,1,opt,name=command,proto3" json:"command,omitempty"`
	Description string `protobuf:"bytes,2,opt,name=description,proto3" json:"description,omitempty"`
	Error       string `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
}

// NewMessage implements Message.
func (m *SyscallApplied) NewMessage() fx.Message { return &SyscallApplied{} }

// TypeID implements SerializableMessage.
func (m *SyscallApplied) TypeID() uint32 { return SyscallAppliedTypeID }

// Serializable implements SerializableMessage.
func (m *SyscallApplied) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SyscallApplied) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SyscallApplied) Reset() { *m = SyscallApplied{} }

// String implements proto.Message.
func (m *SyscallApplied) String() string { return proto.CompactTextString(m) }

// AppStatus reflects the state of the loaded application.
type AppStatus struct {
	State             string `protobuf:"bytes,1,opt,name=state,proto3" json:"state,omitempty"`
	Loaded            bool   `protobuf:"varint,2,opt,name=loaded,proto3" json:"loaded,omitempty"`
	Running           bool   `protobuf:"varint,3,opt,name=running,proto3" json:"running,omitempty"`
	RamUsed           uint32 `protobuf:"varint,4,opt,name=ram_used,json=ramUsed,proto3" json:"ram_used,omitempty"`
	LastServiceResult int32  `protobuf:"varint,5,opt,name=last_service_result,json=lastServiceResult,proto3" json:"last_service_result,omitempty"`
}

// NewMessage implements Message.
func (m *AppStatus) NewMessage() fx.Message { return &AppStatus{} }

// TypeID implements SerializableMessage.
func (m *AppStatus) TypeID() uint32 { return AppStatusTypeID }

// Serializable implements SerializableMessage.
func (m *AppStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *AppStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *AppStatus) Reset() { *m = AppStatus{} }

// String implements proto.Message.
func (m *AppStatus) String() string { return proto.CompactTextString(m) }

// AppUpload is emitted when an application upload completes.
type AppUpload struct {
	Size  uint32 `protobuf:"varint,1,opt,name=size,proto3" json:"size,omitempty"`
	Error string `protobuf:"bytes,2,opt,name=error,proto3" json:"error,omitempty"`
}

// NewMessage implements Message.
func (m *AppUpload) NewMessage() fx.Message { return &AppUpload{} }

// TypeID implements SerializableMessage.
func (m *AppUpload) TypeID() uint32 { return AppUploadTypeID }

// Serializable implements SerializableMessage.
func (m *AppUpload) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *AppUpload) ProtoMessage() {}

// Reset implements proto.Message.
func (m *AppUpload) Reset() { *m = AppUpload{} }

// String implements proto.Message.
func (m *AppUpload) String() string { return proto.CompactTextString(m) }

// Input delivers a touch input event to the watch.
type Input struct {
	Event string `protobuf:"bytes,1,opt,name=event,proto3" json:"event,omitempty"`
}

// NewMessage implements Message.
func (m *Input) NewMessage() fx.Message { return &Input{} }

// TypeID implements SerializableMessage.
func (m *Input) TypeID() uint32 { return InputTypeID }

// Serializable implements SerializableMessage.
func (m *Input) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Input) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Input) Reset() { *m = Input{} }

// String implements proto.Message.
func (m *Input) String() string { return proto.CompactTextString(m) }
