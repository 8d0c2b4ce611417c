package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishEntryEvent 向指定主题发布条目生命周期事件.
func PublishEntryEvent(pub message.Publisher, topic string, payload EntryEventPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}

// ParseEntryEvent 将 Watermill 消息解析为强类型 Envelope.
func ParseEntryEvent(msg *message.Message) (Message[EntryEventPayload], error) {
	return ParseWatermillMessage[EntryEventPayload](msg)
}
